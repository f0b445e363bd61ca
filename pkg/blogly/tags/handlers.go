package tags

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bloglyapp/blogly/pkg/blogly/httperr"
	"github.com/bloglyapp/blogly/pkg/blogly/models"
)

// Handler handles tag-related requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new tags handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// TagForm represents the submitted create/edit tag form
type TagForm struct {
	Name string `form:"name" binding:"required"`
}

// fetch loads the tag named by the :id param, writing the 400/404
// error page itself when the lookup fails.
func (h *Handler) fetch(c *gin.Context, preloads ...string) (models.Tag, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.HTML(http.StatusBadRequest, "error.html", gin.H{"Status": http.StatusBadRequest, "Error": "Invalid tag ID"})
		return models.Tag{}, false
	}

	query := h.db
	for _, p := range preloads {
		query = query.Preload(p)
	}

	var tag models.Tag
	if err := query.First(&tag, uint(id)).Error; err != nil {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"Status": http.StatusNotFound, "Error": "Tag not found"})
		return models.Tag{}, false
	}
	return tag, true
}

// nameTaken reports whether another tag already uses name.
// Tag names are case-sensitively unique.
func (h *Handler) nameTaken(name string, excludeID uint) bool {
	var existing models.Tag
	query := h.db.Where("name = ?", name)
	if excludeID > 0 {
		query = query.Where("id != ?", excludeID)
	}
	return query.First(&existing).Error == nil
}

// List shows all tags
func (h *Handler) List(c *gin.Context) {
	var tags []models.Tag
	if err := h.db.Find(&tags).Error; err != nil {
		httperr.Render(c, err)
		return
	}
	c.HTML(http.StatusOK, "tags.html", gin.H{"Tags": tags})
}

// NewForm shows the add-tag form
func (h *Handler) NewForm(c *gin.Context) {
	c.HTML(http.StatusOK, "tag_form.html", nil)
}

// Create processes the add-tag form. A duplicate name is a conflict,
// checked up front and backstopped by the unique index.
func (h *Handler) Create(c *gin.Context) {
	var form TagForm
	if err := c.ShouldBind(&form); err != nil {
		httperr.Render(c, err)
		return
	}

	if h.nameTaken(form.Name, 0) {
		httperr.Render(c, gorm.ErrDuplicatedKey)
		return
	}

	tag := models.Tag{Name: form.Name}
	if err := h.db.Create(&tag).Error; err != nil {
		httperr.Render(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/tags")
}

// Detail shows a tag with its posts
func (h *Handler) Detail(c *gin.Context) {
	tag, ok := h.fetch(c, "Posts")
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "tag_details.html", gin.H{"Tag": tag})
}

// EditForm shows the edit form pre-populated with the tag's current name
func (h *Handler) EditForm(c *gin.Context) {
	tag, ok := h.fetch(c)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "edit_tag.html", gin.H{"Tag": tag})
}

// Update processes the edit form, mutating the fetched tag in place
func (h *Handler) Update(c *gin.Context) {
	tag, ok := h.fetch(c)
	if !ok {
		return
	}

	var form TagForm
	if err := c.ShouldBind(&form); err != nil {
		httperr.Render(c, err)
		return
	}

	if h.nameTaken(form.Name, tag.ID) {
		httperr.Render(c, gorm.ErrDuplicatedKey)
		return
	}

	tag.Name = form.Name
	if err := h.db.Save(&tag).Error; err != nil {
		httperr.Render(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/tags")
}

// Delete removes a tag and its post associations
func (h *Handler) Delete(c *gin.Context) {
	tag, ok := h.fetch(c)
	if !ok {
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&tag).Association("Posts").Clear(); err != nil {
			return err
		}
		return tx.Delete(&tag).Error
	})
	if err != nil {
		httperr.Render(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/tags")
}

// RegisterRoutes registers tag routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/tags", h.List)
	rg.GET("/tags/new", h.NewForm)
	rg.POST("/tags/new", h.Create)
	rg.GET("/tag/:id", h.Detail)
	rg.GET("/tags/:id/edit", h.EditForm)
	rg.POST("/tags/:id/edit", h.Update)
	rg.POST("/tags/:id/delete", h.Delete)
}
