package posts

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bloglyapp/blogly/pkg/blogly/httperr"
	"github.com/bloglyapp/blogly/pkg/blogly/models"
)

// Handler handles post-related requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new posts handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// PostForm represents the submitted create/edit post form
type PostForm struct {
	Title   string `form:"title" binding:"required"`
	Content string `form:"content" binding:"required"`
}

// tagIDs reads the multi-value "tags" field. Values that are not
// unsigned integers are skipped.
func tagIDs(c *gin.Context) []uint {
	var ids []uint
	for _, v := range c.PostFormArray("tags") {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids
}

// fetch loads the post named by the :id param, writing the 400/404
// error page itself when the lookup fails.
func (h *Handler) fetch(c *gin.Context, preloads ...string) (models.Post, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.HTML(http.StatusBadRequest, "error.html", gin.H{"Status": http.StatusBadRequest, "Error": "Invalid post ID"})
		return models.Post{}, false
	}

	query := h.db
	for _, p := range preloads {
		query = query.Preload(p)
	}

	var post models.Post
	if err := query.First(&post, uint(id)).Error; err != nil {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"Status": http.StatusNotFound, "Error": "Post not found"})
		return models.Post{}, false
	}
	return post, true
}

// fetchUser loads the owning user named by the :id param for the
// nested create-post routes.
func (h *Handler) fetchUser(c *gin.Context) (models.User, bool) {
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

// NewForm shows the add-post form for a user, offering all tags for selection
func (h *Handler) NewForm(c *gin.Context) {
	user, ok := h.fetchUser(c)
	if !ok {
		return
	}

	var tags []models.Tag
	if err := h.db.Find(&tags).Error; err != nil {
		httperr.Render(c, err)
		return
	}

	c.HTML(http.StatusOK, "post_form.html", gin.H{"User": user, "Tags": tags})
}

// Create processes the add-post form. Selected tag ids that do not
// resolve to a tag are dropped, not an error.
func (h *Handler) Create(c *gin.Context) {
	user, ok := h.fetchUser(c)
	if !ok {
		return
	}

	var form PostForm
	if err := c.ShouldBind(&form); err != nil {
		httperr.Render(c, err)
		return
	}

	tags, err := models.ResolveTags(h.db, tagIDs(c))
	if err != nil {
		httperr.Render(c, err)
		return
	}

	post := models.Post{
		Title:   form.Title,
		Content: form.Content,
		UserID:  user.ID,
		Tags:    tags,
	}

	if err := h.db.Create(&post).Error; err != nil {
		httperr.Render(c, err)
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d", user.ID))
}

// Detail shows a post with its tags and owning user
func (h *Handler) Detail(c *gin.Context) {
	post, ok := h.fetch(c, "Tags", "User")
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "post_details.html", gin.H{"Post": post})
}

// EditForm shows the edit form pre-populated with the post's current values
func (h *Handler) EditForm(c *gin.Context) {
	post, ok := h.fetch(c, "Tags")
	if !ok {
		return
	}

	var tags []models.Tag
	if err := h.db.Find(&tags).Error; err != nil {
		httperr.Render(c, err)
		return
	}

	selected := make(map[uint]bool, len(post.Tags))
	for _, t := range post.Tags {
		selected[t.ID] = true
	}

	c.HTML(http.StatusOK, "edit_post.html", gin.H{"Post": post, "Tags": tags, "Selected": selected})
}

// Update processes the edit form, mutating the fetched post in place
// and replacing its tag set with the submitted selection.
func (h *Handler) Update(c *gin.Context) {
	post, ok := h.fetch(c)
	if !ok {
		return
	}

	var form PostForm
	if err := c.ShouldBind(&form); err != nil {
		httperr.Render(c, err)
		return
	}

	tags, err := models.ResolveTags(h.db, tagIDs(c))
	if err != nil {
		httperr.Render(c, err)
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		post.Title = form.Title
		post.Content = form.Content
		if err := tx.Save(&post).Error; err != nil {
			return err
		}
		return post.SetTags(tx, tags)
	})
	if err != nil {
		httperr.Render(c, err)
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/posts/%d", post.ID))
}

// Delete removes a post and its tag associations
func (h *Handler) Delete(c *gin.Context) {
	post, ok := h.fetch(c)
	if !ok {
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&post).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		httperr.Render(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/users")
}

// RegisterRoutes registers post routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/users/:id/posts/new", h.NewForm)
	rg.POST("/users/:id/posts/new", h.Create)
	rg.GET("/posts/:id", h.Detail)
	rg.GET("/posts/:id/edit", h.EditForm)
	rg.POST("/posts/:id/edit", h.Update)
	rg.POST("/post/:id/delete", h.Delete)
}
