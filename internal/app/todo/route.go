package todo

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg gin.IRouter, handler Handler) {
	todos := rg.Group("/todos")
	{
		todos.GET("", handler.ListTodos)
		todos.POST("", handler.CreateTodo)
		todos.GET("/:id", handler.GetTodo)
		todos.PUT("/:id", handler.UpdateTodo)
		todos.DELETE("/:id", handler.DeleteTodo)
	}
}
