package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PagesHandler serves the small server-rendered pages; everything
// dynamic goes through the JSON API.
type PagesHandler struct {
}

func NewPagesHandler() *PagesHandler {
	return &PagesHandler{}
}

func (h *PagesHandler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

func (h *PagesHandler) PostsViewPage(c *gin.Context) {
	c.HTML(http.StatusOK, "posts_view.html", gin.H{})
}

func (h *PagesHandler) PostCreatePage(c *gin.Context) {
	c.HTML(http.StatusOK, "posts_create.html", gin.H{})
}
