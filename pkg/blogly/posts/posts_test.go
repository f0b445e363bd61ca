package posts

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bloglyapp/blogly/pkg/blogly/models"
	"github.com/bloglyapp/blogly/pkg/blogly/web"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	models.AutoMigrate(db)
	return db
}

func setupTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	web.LoadTemplates(r)
	NewHandler(db).RegisterRoutes(r.Group(""))
	return r
}

func createTestUser(t *testing.T, db *gorm.DB) models.User {
	user := models.User{FirstName: "John", LastName: "Doe", ImageURL: models.DefaultImageURL}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

func createTestPost(t *testing.T, db *gorm.DB, userID uint, title string) models.Post {
	post := models.Post{Title: title, Content: "Some content", UserID: userID}
	if err := db.Create(&post).Error; err != nil {
		t.Fatalf("Failed to create test post: %v", err)
	}
	return post
}

func createTestTag(t *testing.T, db *gorm.DB, name string) models.Tag {
	tag := models.Tag{Name: name}
	if err := db.Create(&tag).Error; err != nil {
		t.Fatalf("Failed to create test tag: %v", err)
	}
	return tag
}

func postForm(router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestNewPostForm(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	createTestUser(t, db)
	createTestTag(t, db, "tech")

	req, _ := http.NewRequest("GET", "/users/1/posts/new", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "tech") {
		t.Errorf("Expected form to offer available tags")
	}
}

func TestNewPostFormUserNotFound(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)

	req, _ := http.NewRequest("GET", "/users/999/posts/new", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.Code)
	}
}

func TestCreatePost(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db)
	tag := createTestTag(t, db, "tech")

	form := url.Values{}
	form.Set("title", "First Post")
	form.Set("content", "Hello world")
	form.Add("tags", strconv.Itoa(int(tag.ID)))
	resp := postForm(router, "/users/1/posts/new", form)

	if resp.Code != http.StatusFound {
		t.Fatalf("Expected status 302, got %d: %s", resp.Code, resp.Body.String())
	}
	if loc := resp.Header().Get("Location"); loc != "/users/1" {
		t.Errorf("Expected redirect to /users/1, got %s", loc)
	}

	var post models.Post
	if err := db.Preload("Tags").Where("title = ?", "First Post").First(&post).Error; err != nil {
		t.Fatalf("Expected post to be persisted: %v", err)
	}
	if post.UserID != user.ID {
		t.Errorf("Expected post owned by user %d, got %d", user.ID, post.UserID)
	}
	if len(post.Tags) != 1 || post.Tags[0].Name != "tech" {
		t.Errorf("Expected post tagged 'tech', got %+v", post.Tags)
	}
}

func TestCreatePostDropsUnknownTagIDs(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	createTestUser(t, db)
	tag := createTestTag(t, db, "tech")

	form := url.Values{}
	form.Set("title", "First Post")
	form.Set("content", "Hello world")
	form.Add("tags", strconv.Itoa(int(tag.ID)))
	form.Add("tags", "999")
	resp := postForm(router, "/users/1/posts/new", form)

	if resp.Code != http.StatusFound {
		t.Fatalf("Expected status 302, got %d: %s", resp.Code, resp.Body.String())
	}

	var post models.Post
	db.Preload("Tags").Where("title = ?", "First Post").First(&post)
	if len(post.Tags) != 1 {
		t.Errorf("Expected only the valid tag to be linked, got %d", len(post.Tags))
	}
}

func TestCreatePostMissingFields(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	createTestUser(t, db)

	form := url.Values{}
	form.Set("title", "First Post")
	resp := postForm(router, "/users/1/posts/new", form)

	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.Code)
	}
}

func TestPostDetail(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db)
	post := createTestPost(t, db, user.ID, "First Post")
	tag := createTestTag(t, db, "tech")
	db.Model(&post).Association("Tags").Append(&tag)

	req, _ := http.NewRequest("GET", "/posts/1", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.Code)
	}
	body := resp.Body.String()
	if !strings.Contains(body, "First Post") {
		t.Errorf("Expected detail page to contain the title")
	}
	if !strings.Contains(body, "John Doe") {
		t.Errorf("Expected detail page to name the owning user")
	}
	if !strings.Contains(body, "tech") {
		t.Errorf("Expected detail page to list the post's tags")
	}
}

func TestPostDetailNotFound(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)

	req, _ := http.NewRequest("GET", "/posts/999", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.Code)
	}
}

func TestEditPostForm(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db)
	createTestPost(t, db, user.ID, "First Post")
	createTestTag(t, db, "tech")

	req, _ := http.NewRequest("GET", "/posts/1/edit", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `value="First Post"`) {
		t.Errorf("Expected edit form to be pre-populated")
	}
}

func TestEditPostUpdatesInPlaceAndReplacesTags(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db)
	post := createTestPost(t, db, user.ID, "First Post")
	oldTag := createTestTag(t, db, "old")
	newTag := createTestTag(t, db, "new")
	db.Model(&post).Association("Tags").Append(&oldTag)

	form := url.Values{}
	form.Set("title", "Edited Post")
	form.Set("content", "Edited content")
	form.Add("tags", strconv.Itoa(int(newTag.ID)))
	resp := postForm(router, "/posts/1/edit", form)

	if resp.Code != http.StatusFound {
		t.Fatalf("Expected status 302, got %d: %s", resp.Code, resp.Body.String())
	}
	if loc := resp.Header().Get("Location"); loc != "/posts/1" {
		t.Errorf("Expected redirect to /posts/1, got %s", loc)
	}

	var count int64
	db.Model(&models.Post{}).Count(&count)
	if count != 1 {
		t.Errorf("Expected edit to update in place, got %d rows", count)
	}

	var updated models.Post
	db.Preload("Tags").First(&updated, post.ID)
	if updated.Title != "Edited Post" || updated.Content != "Edited content" {
		t.Errorf("Expected updated fields, got %+v", updated)
	}
	if len(updated.Tags) != 1 || updated.Tags[0].Name != "new" {
		t.Errorf("Expected tag set replaced with 'new', got %+v", updated.Tags)
	}
}

func TestEditPostClearsTagsWhenNoneSelected(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db)
	post := createTestPost(t, db, user.ID, "First Post")
	tag := createTestTag(t, db, "old")
	db.Model(&post).Association("Tags").Append(&tag)

	form := url.Values{}
	form.Set("title", "Edited Post")
	form.Set("content", "Edited content")
	resp := postForm(router, "/posts/1/edit", form)

	if resp.Code != http.StatusFound {
		t.Fatalf("Expected status 302, got %d", resp.Code)
	}

	var updated models.Post
	db.Preload("Tags").First(&updated, post.ID)
	if len(updated.Tags) != 0 {
		t.Errorf("Expected tag set cleared, got %+v", updated.Tags)
	}
}

func TestEditPostNotFound(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)

	form := url.Values{}
	form.Set("title", "Edited Post")
	form.Set("content", "Edited content")
	resp := postForm(router, "/posts/999/edit", form)

	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.Code)
	}
}

func TestDeletePost(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db)
	post := createTestPost(t, db, user.ID, "First Post")
	tag := createTestTag(t, db, "tech")
	db.Model(&post).Association("Tags").Append(&tag)

	resp := postForm(router, "/post/1/delete", url.Values{})

	if resp.Code != http.StatusFound {
		t.Fatalf("Expected status 302, got %d", resp.Code)
	}
	if loc := resp.Header().Get("Location"); loc != "/users" {
		t.Errorf("Expected redirect to /users, got %s", loc)
	}

	var count int64
	db.Model(&models.Post{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected post to be deleted, got %d rows", count)
	}

	var joinCount int64
	db.Table("post_tags").Count(&joinCount)
	if joinCount != 0 {
		t.Errorf("Expected join rows to be removed, got %d rows", joinCount)
	}
}

func TestDeletePostNotFound(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)

	resp := postForm(router, "/post/999/delete", url.Values{})
	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.Code)
	}
}
