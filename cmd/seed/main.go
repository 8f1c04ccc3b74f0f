package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-campus/config"
	"github.com/oksasatya/go-ddd-campus/internal/container"
	"github.com/oksasatya/go-ddd-campus/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-campus/internal/domain/repository"
	"github.com/oksasatya/go-ddd-campus/internal/infrastructure/persistence"
	"github.com/oksasatya/go-ddd-campus/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)
	ctx := context.Background()

	db, err := container.OpenDatabase(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer db.Close()
	if err := db.Migrate(logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	res, err := seed(ctx, persistence.NewStore(db.DB, logger))
	if err != nil {
		log.Fatalf("seed failed: %v", err)
	}
	logger.WithFields(logrus.Fields{
		"semester_id": res.SemesterID,
		"class_id":    res.ClassID,
		"users":       res.Users,
		"enrolled":    res.Enrolled,
		"topics":      res.Topics,
	}).Info("seeded FA24/CS101")
}

type seedUser struct {
	Email, Name, Role, ClassRole string
}

var seedUsers = []seedUser{
	{"lecturer@campus.test", "Ada Lecturer", entity.RoleLecturer, entity.EnrollmentRoleLecturer},
	{"ta@campus.test", "Tom Assistant", entity.RoleStudent, entity.EnrollmentRoleTeachingAssistant},
	{"alice@campus.test", "Alice Student", entity.RoleStudent, entity.EnrollmentRoleStudent},
	{"bob@campus.test", "Bob Student", entity.RoleStudent, entity.EnrollmentRoleStudent},
}

var seedTopics = []string{"Variables", "Control flow", "Functions", "Collections"}

type result struct {
	SemesterID string
	ClassID    string
	Users      int
	Enrolled   int
	Topics     int
}

// seed creates the FA24 semester, the CS101 class, its members and topics in
// one transaction. Rows that already exist are reused.
func seed(ctx context.Context, store repo.UnitOfWorkFactory) (result, error) {
	var res result
	uow := store.New()
	defer uow.Close()

	err := repo.WithTransaction(ctx, uow, func(ctx context.Context) error {
		sem, err := firstOr(ctx, uow.Semesters(), repo.Eq("code", "FA24"), func() (*entity.Semester, error) {
			return entity.NewSemester("FA24", entity.TermFall, 2024,
				time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC),
				time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC))
		})
		if err != nil {
			return err
		}
		res.SemesterID = sem.ID

		ids := make([]string, len(seedUsers))
		for i, su := range seedUsers {
			u, err := firstOr(ctx, uow.Users(), repo.Eq("email", su.Email), func() (*entity.User, error) {
				return entity.NewUser(su.Email, su.Name, su.Role, "2024")
			})
			if err != nil {
				return err
			}
			ids[i] = u.ID
		}
		res.Users = len(ids)

		class, err := firstOr(ctx, uow.Classes(), repo.And(repo.Eq("semester_id", sem.ID), repo.Eq("code", "CS101")), func() (*entity.Class, error) {
			return entity.NewClass(sem.ID, "CS101", "Intro to Programming", ids[0])
		})
		if err != nil {
			return err
		}
		res.ClassID = class.ID

		for i, su := range seedUsers {
			if _, err := firstOr(ctx, uow.Enrollments(), repo.And(repo.Eq("class_id", class.ID), repo.Eq("user_id", ids[i])), func() (*entity.ClassEnrollment, error) {
				return entity.NewClassEnrollment(class.ID, ids[i], su.ClassRole)
			}); err != nil {
				return err
			}
			res.Enrolled++
		}

		for i, title := range seedTopics {
			if _, err := firstOr(ctx, uow.Topics(), repo.And(repo.Eq("class_id", class.ID), repo.Eq("title", title)), func() (*entity.Topic, error) {
				return entity.NewTopic(class.ID, title, "", i+1)
			}); err != nil {
				return err
			}
			res.Topics++
		}
		_, err = uow.SaveChanges(ctx)
		return err
	})
	return res, err
}

// firstOr returns the first row matching where, or inserts the one built by create.
func firstOr[T repo.Entity](ctx context.Context, r repo.Repository[T], where repo.Predicate, create func() (T, error)) (T, error) {
	rows, err := r.GetAll(ctx, where)
	if err != nil {
		var zero T
		return zero, err
	}
	if len(rows) > 0 {
		return rows[0], nil
	}
	e, err := create()
	if err != nil {
		return e, err
	}
	if _, err := r.Insert(ctx, e); err != nil {
		return e, err
	}
	// flush so later lookups and foreign keys see the row
	_, err = r.Save(ctx)
	return e, err
}
