package application_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/oksasatya/go-ddd-campus/internal/application"
	"github.com/oksasatya/go-ddd-campus/internal/infrastructure/persistence"
	"github.com/oksasatya/go-ddd-campus/internal/testutil"
	"github.com/oksasatya/go-ddd-campus/pkg/mailer"
)

func newStore(t *testing.T) *persistence.Store {
	t.Helper()
	return persistence.NewStore(testutil.SetupTestDB(t), nil)
}

type fakeIndex struct {
	mu   sync.Mutex
	docs map[string]application.UserDocument
	err  error
}

func (f *fakeIndex) IndexUser(_ context.Context, doc application.UserDocument) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.docs == nil {
		f.docs = map[string]application.UserDocument{}
	}
	f.docs[doc.ID] = doc
	return nil
}

func (f *fakeIndex) SearchUsers(_ context.Context, query string, size int) ([]application.UserDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []application.UserDocument
	for _, d := range f.docs {
		if d.Email == query || d.DisplayName == query {
			out = append(out, d)
		}
	}
	if len(out) > size {
		out = out[:size]
	}
	return out, nil
}

type fakeAvatars struct {
	paths []string
	body  string
}

func (f *fakeAvatars) Upload(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.paths = append(f.paths, objectPath)
	f.body = string(b)
	return "https://storage.googleapis.com/avatars-bucket/" + objectPath, nil
}

type fakePublisher struct {
	jobs []mailer.EmailJob
	err  error
}

func (f *fakePublisher) PublishJSON(_ context.Context, body any) error {
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, body.(mailer.EmailJob))
	return nil
}

type fakeCompleter struct {
	got    []application.ChatMessage
	answer string
}

func (f *fakeCompleter) Complete(_ context.Context, messages []application.ChatMessage) (string, error) {
	f.got = messages
	if f.answer == "" {
		return "", errors.New("no answer configured")
	}
	return f.answer, nil
}
