package employee

import (
	"go-employee-gateway/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	logger *zap.Logger,
	extra ...gin.HandlerFunc,
) {
	employees := r.Group("/employee")
	employees.Use(middleware.ContextLogger(logger))
	employees.Use(extra...)
	{
		employees.GET("", handler.GetAll)
		employees.GET("/search/:q", handler.Search)
		employees.GET("/highestSalary", handler.GetHighestSalary)
		employees.GET("/topTenHighestEarningEmployeeNames", handler.GetTopTenHighestEarningNames)
		employees.GET("/:id", handler.GetByID)
		employees.POST("", handler.Create)
		employees.DELETE("/:id", handler.Delete)
	}
}
