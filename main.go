package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"

	"github.com/marouan1337/oussaaaa/routes"
	"github.com/marouan1337/oussaaaa/storage"
	"github.com/marouan1337/oussaaaa/utils"
)

func main() {
	godotenv.Load()
	storage.InitializeDB()
	storage.InitializeRedis()
	defer storage.CloseDB()

	if os.Getenv("JWT_SECRET") == "" {
		log.Panic("JWT_SECRET environment variable is required")
	}

	app := iris.New()
	app.Validator = validator.New()

	// CORS for the dashboard frontend; the session cookie needs credentials.
	// PUBLIC_BASE_URL pins the allowed origin, otherwise the origin is echoed.
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		origin := os.Getenv("PUBLIC_BASE_URL")
		if origin == "" {
			origin = ctx.GetHeader("Origin")
		}
		ctx.Header("Access-Control-Allow-Origin", origin)
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	sessionVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("JWT_SECRET")))
	sessionVerifier.Extractors = []jwt.TokenExtractor{utils.FromSessionCookie}
	sessionMiddleware := sessionVerifier.Verify(func() interface{} {
		return new(utils.SessionToken)
	})

	auth := app.Party("/api/auth")
	{
		auth.Post("/register", routes.Register)
		auth.Post("/login", routes.Login)
		auth.Post("/logout", sessionMiddleware, utils.RequireActiveSession, routes.Logout)
	}

	properties := app.Party("/api/properties")
	{
		properties.Get("/", routes.SearchProperties)
		properties.Get("/{id}", routes.GetProperty)
		properties.Post("/", sessionMiddleware, utils.RequireActiveSession, routes.CreateProperty)
		properties.Put("/{id}", sessionMiddleware, utils.RequireActiveSession, routes.UpdateProperty)
		properties.Delete("/{id}", sessionMiddleware, utils.RequireActiveSession, routes.DeleteProperty)
	}

	user := app.Party("/api/user", sessionMiddleware, utils.RequireActiveSession)
	{
		user.Get("/me", routes.CurrentUser)
		user.Put("/settings", routes.UpdateSettings)
	}

	app.Post("/api/upload", sessionMiddleware, utils.RequireActiveSession, routes.UploadImage)
	app.Get("/api/contact-info", routes.GetContactInfo)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	app.Listen(":" + port)
}
