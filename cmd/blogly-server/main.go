package main

import (
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/bloglyapp/blogly/pkg/blogly/database"
	"github.com/bloglyapp/blogly/pkg/blogly/logging"
	"github.com/bloglyapp/blogly/pkg/blogly/models"
	"github.com/bloglyapp/blogly/pkg/blogly/posts"
	"github.com/bloglyapp/blogly/pkg/blogly/tags"
	"github.com/bloglyapp/blogly/pkg/blogly/users"
	"github.com/bloglyapp/blogly/pkg/blogly/web"
)

func main() {
	_ = godotenv.Load()
	log := logging.New()

	rootCmd := &cobra.Command{
		Use:   "blogly-server",
		Short: "Blogly blog server",
	}
	rootCmd.AddCommand(serveCmd(log), migrateCmd(log))

	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}

// openDB connects using the BLOGLY_DB env var. A postgres DSN selects
// the postgres driver; anything else is a sqlite path.
func openDB() (*gorm.DB, error) {
	dsn := os.Getenv("BLOGLY_DB")
	if dsn == "" {
		dsn = "blogly.db"
	}
	return database.Open(dsn)
}

func serveCmd(log zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			if err := models.AutoMigrate(db); err != nil {
				return err
			}
			log.Info().Msg("database migrations completed")

			r := NewRouter(db, log)

			port := os.Getenv("PORT")
			if port == "" {
				port = "8080"
			}
			log.Info().Str("port", port).Msg("starting blogly server")
			return r.Run(":" + port)
		},
	}
}

func migrateCmd(log zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			if err := models.AutoMigrate(db); err != nil {
				return err
			}
			log.Info().Msg("database migrations completed")
			return nil
		},
	}
}

// NewRouter builds the gin engine with templates, middleware, and all
// entity routes registered.
func NewRouter(db *gorm.DB, log zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logging.RequestLogger(log), cors.Default())
	web.LoadTemplates(r)

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/users")
	})

	root := r.Group("")
	users.NewHandler(db).RegisterRoutes(root)
	posts.NewHandler(db).RegisterRoutes(root)
	tags.NewHandler(db).RegisterRoutes(root)

	return r
}
