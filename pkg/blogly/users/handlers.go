package users

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bloglyapp/blogly/pkg/blogly/httperr"
	"github.com/bloglyapp/blogly/pkg/blogly/models"
)

// Handler handles user-related requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new users handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// UserForm represents the submitted create/edit user form.
// image_url is optional and falls back to the placeholder.
type UserForm struct {
	FirstName string `form:"first_name" binding:"required"`
	LastName  string `form:"last_name" binding:"required"`
	ImageURL  string `form:"image_url"`
}

// fetch loads the user named by the :id param, writing the 400/404
// error page itself when the lookup fails.
func (h *Handler) fetch(c *gin.Context) (models.User, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.HTML(http.StatusBadRequest, "error.html", gin.H{"Status": http.StatusBadRequest, "Error": "Invalid user ID"})
		return models.User{}, false
	}

	var user models.User
	if err := h.db.First(&user, uint(id)).Error; err != nil {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"Status": http.StatusNotFound, "Error": "User not found"})
		return models.User{}, false
	}
	return user, true
}

// List shows all users
func (h *Handler) List(c *gin.Context) {
	var users []models.User
	if err := h.db.Find(&users).Error; err != nil {
		httperr.Render(c, err)
		return
	}
	c.HTML(http.StatusOK, "users.html", gin.H{"Users": users})
}

// NewForm shows the add-user form
func (h *Handler) NewForm(c *gin.Context) {
	c.HTML(http.StatusOK, "user_form.html", nil)
}

// Create processes the add-user form and redirects to the user list
func (h *Handler) Create(c *gin.Context) {
	var form UserForm
	if err := c.ShouldBind(&form); err != nil {
		httperr.Render(c, err)
		return
	}

	user := models.User{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		ImageURL:  form.ImageURL,
	}
	if user.ImageURL == "" {
		user.ImageURL = models.DefaultImageURL
	}

	if err := h.db.Create(&user).Error; err != nil {
		httperr.Render(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/users")
}

// Detail shows a user with their posts
func (h *Handler) Detail(c *gin.Context) {
	user, ok := h.fetch(c)
	if !ok {
		return
	}

	var posts []models.Post
	if err := h.db.Where("user_id = ?", user.ID).Find(&posts).Error; err != nil {
		httperr.Render(c, err)
		return
	}

	c.HTML(http.StatusOK, "user_details.html", gin.H{"User": user, "Posts": posts})
}

// EditForm shows the edit form pre-populated with the user's current values
func (h *Handler) EditForm(c *gin.Context) {
	user, ok := h.fetch(c)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "edit_user.html", gin.H{"User": user})
}

// Update processes the edit form, mutating the fetched user in place
func (h *Handler) Update(c *gin.Context) {
	user, ok := h.fetch(c)
	if !ok {
		return
	}

	var form UserForm
	if err := c.ShouldBind(&form); err != nil {
		httperr.Render(c, err)
		return
	}

	user.FirstName = form.FirstName
	user.LastName = form.LastName
	user.ImageURL = form.ImageURL
	if user.ImageURL == "" {
		user.ImageURL = models.DefaultImageURL
	}

	if err := h.db.Save(&user).Error; err != nil {
		httperr.Render(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/users")
}

// Delete removes a user and cascades to the user's posts.
// The posts' tag associations are cleared first so no join rows leak.
func (h *Handler) Delete(c *gin.Context) {
	user, ok := h.fetch(c)
	if !ok {
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		var posts []models.Post
		if err := tx.Where("user_id = ?", user.ID).Find(&posts).Error; err != nil {
			return err
		}
		for i := range posts {
			if err := tx.Model(&posts[i]).Association("Tags").Clear(); err != nil {
				return err
			}
		}
		if len(posts) > 0 {
			if err := tx.Where("user_id = ?", user.ID).Delete(&models.Post{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		httperr.Render(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/users")
}

// RegisterRoutes registers user routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/users", h.List)
	rg.GET("/users/new", h.NewForm)
	rg.POST("/users/new", h.Create)
	rg.GET("/users/:id", h.Detail)
	rg.GET("/users/:id/edit", h.EditForm)
	rg.POST("/users/:id/edit", h.Update)
	rg.POST("/delete/:id", h.Delete)
}
