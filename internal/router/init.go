package router

import (
	"github.com/oksasatya/go-ddd-campus/config"
	"github.com/oksasatya/go-ddd-campus/internal/application"
	"github.com/oksasatya/go-ddd-campus/internal/container"
	"github.com/oksasatya/go-ddd-campus/internal/infrastructure/search"
	"github.com/oksasatya/go-ddd-campus/internal/infrastructure/storage"
	handlers "github.com/oksasatya/go-ddd-campus/internal/interface/http"
	"github.com/oksasatya/go-ddd-campus/internal/router/modules"
)

func buildIdentity(cfg *config.Config) Module {
	var (
		index   application.UserIndexer
		avatars application.AvatarStore
	)
	if es := container.GetES(); es != nil {
		index = search.NewUserIndex(es, cfg.ESUsersIndex)
	}
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		avatars = storage.NewAvatarStore(gcs, cfg.GCSBucket)
	}
	jobs := container.GetJobPublisher()
	svc := application.NewUserService(container.GetStore(), index, avatars, jobs, container.GetLogger())
	return &modules.IdentityModule{
		Users: handlers.NewUserHandler(svc, container.GetLogger()),
		Email: handlers.NewEmailHandler(jobs, container.GetLogger(), cfg.MailSendEnabled),
	}
}

func buildCourse() Module {
	store, logger := container.GetStore(), container.GetLogger()
	return &modules.CourseModule{
		Semesters:   handlers.NewSemesterHandler(application.NewSemesterService(store, logger), logger),
		Classes:     handlers.NewClassHandler(application.NewClassService(store, logger), logger),
		Enrollments: handlers.NewEnrollmentHandler(application.NewEnrollmentService(store, container.GetJobPublisher(), logger), logger),
		Topics:      handlers.NewTopicHandler(application.NewTopicService(store, logger), logger),
	}
}

func buildChatbot() Module {
	svc := application.NewChatbotService(container.GetStore(), container.GetCompleter(), container.GetLogger())
	return modules.NewChatbotModule(handlers.NewChatbotHandler(svc, container.GetLogger()))
}

// InitModules initializes the modules selected by SERVICE_NAME and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	r.AddRoot(modules.NewHealthModule(handlers.NewHealthHandler(container.GetStore(), container.GetLogger())))
	if cfg.DebugMetricsEnabled {
		r.AddRoot(modules.NewDebugModule())
	}
	if cfg.Serves(config.ServiceIdentity) {
		r.Add(buildIdentity(cfg))
	}
	if cfg.Serves(config.ServiceCourse) {
		r.Add(buildCourse())
	}
	if cfg.Serves(config.ServiceChatbot) {
		r.Add(buildChatbot())
	}
}
