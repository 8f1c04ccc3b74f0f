package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-ddd-campus/internal/interface/http"
)

// CourseModule wires semesters, classes, enrollments and topics.
type CourseModule struct {
	Semesters   *handlers.SemesterHandler
	Classes     *handlers.ClassHandler
	Enrollments *handlers.EnrollmentHandler
	Topics      *handlers.TopicHandler
}

func (m *CourseModule) Register(rg *gin.RouterGroup) {
	semesters := rg.Group("/semesters")
	semesters.POST("", m.Semesters.Create)
	semesters.GET("", m.Semesters.List)
	semesters.GET("/:id", m.Semesters.Get)
	semesters.PATCH("/:id", m.Semesters.Update)
	semesters.DELETE("/:id", m.Semesters.Delete)
	semesters.DELETE("/:id/purge", m.Semesters.Purge)

	classes := rg.Group("/classes")
	classes.POST("", m.Classes.Create)
	classes.GET("", m.Classes.List)
	classes.GET("/:id", m.Classes.Get)
	classes.PATCH("/:id", m.Classes.Update)
	classes.DELETE("/:id", m.Classes.Delete)
	classes.GET("/:id/enrollments", m.Enrollments.ListByClass)
	classes.POST("/:id/enrollments", m.Enrollments.Enroll)
	classes.POST("/:id/enrollments/bulk", m.Enrollments.BulkEnroll)
	classes.GET("/:id/topics", m.Topics.ListByClass)
	classes.POST("/:id/topics", m.Topics.Create)
	classes.DELETE("/:id/topics", m.Topics.Clear)

	rg.PATCH("/enrollments/:id", m.Enrollments.ChangeRole)
	rg.DELETE("/enrollments/:id", m.Enrollments.Drop)
	rg.GET("/users/:id/enrollments", m.Enrollments.ListByUser)

	rg.GET("/topics/:id", m.Topics.Get)
	rg.PATCH("/topics/:id", m.Topics.Update)
	rg.DELETE("/topics/:id", m.Topics.Delete)
}
