package main

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/personameet/recorder/pkg/browser"
	"github.com/personameet/recorder/pkg/http/rest"
	"github.com/personameet/recorder/pkg/session"
	"github.com/personameet/recorder/pkg/upload"
	"github.com/personameet/recorder/pkg/virtualmic"
)

func getEnvOrFail(key string) string {
	val := os.Getenv(key)
	if val == "" {
		log.Fatalf("%s not set", key)
	}
	return val
}

func main() {
	// Get env variables
	port := getEnvOrFail("APP_PORT")
	logLevel := os.Getenv("LOG_LEVEL")
	botName := os.Getenv("BOT_NAME")
	clipFile := os.Getenv("CLIP_FILE")
	profileDir := os.Getenv("PROFILE_DIR")

	// Get log verbosity
	var verbosity log.Lvl
	switch strings.ToLower(logLevel) {
	case "debug":
		verbosity = log.DEBUG
	case "info":
		verbosity = log.INFO
	case "warn":
		verbosity = log.WARN
	case "error":
		fallthrough
	default:
		verbosity = log.ERROR
	}
	log.SetLevel(verbosity)
	log.SetHeader("(${short_file}:${line}) ${time_rfc3339} ${level}: ")

	if botName == "" {
		botName = "Recording Bot"
	}
	if profileDir == "" {
		profileDir = "browser-profile"
	}

	// Load the announcement clip, if one is configured
	var clip *virtualmic.Clip
	if clipFile != "" {
		data, err := os.ReadFile(clipFile)
		if err != nil {
			log.Fatal(err)
		}
		clip, err = virtualmic.NewClip(data, "")
		if err != nil {
			log.Fatal(err)
		}
	}

	// Check if local recordings directory exists, otherwise create one. Also need to check for the right permissions
	// Value of 0755 is obtained from https://stackoverflow.com/questions/14249467/os-mkdir-and-os-mkdirall-permissions
	// for webservers.
	stat, err := os.Stat(session.RecordingsDir)
	if os.IsNotExist(err) {
		err = os.Mkdir(session.RecordingsDir, 0755)
	} else if stat.Mode() != 0755 {
		err = os.Chmod(session.RecordingsDir, 0755)
	}
	if err != nil {
		log.Fatal(err)
	}

	// Create S3 uploader only if the environment variables are not empty
	s3Region := os.Getenv("S3_REGION")
	s3Bucket := os.Getenv("S3_BUCKET")
	var uploader upload.Uploader
	if s3Region != "" && s3Bucket != "" {
		uploader, err = upload.NewS3Uploader(context.Background(), upload.S3Config{
			Region:    s3Region,
			Bucket:    s3Bucket,
			Directory: os.Getenv("S3_DIRECTORY"),
		})
		if err != nil {
			log.Fatal(err)
		}
	}

	// Initialise session service
	service := session.NewService(session.Config{
		BotName: botName,
		Clip:    clip,
		Browser: browser.LaunchConfig{
			ProfileDir: profileDir,
			Channel:    os.Getenv("BROWSER_CHANNEL"),
			Headless:   os.Getenv("BROWSER_HEADLESS") != "false",
		},
		RecordingsDir: session.RecordingsDir,
		Timings:       session.DefaultTimings(),
	}, uploader)

	// Initialise session controller
	controller := rest.NewSessionController(service)

	// Initialise server
	e := echo.New()

	// Attach middlewares
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "(${host}) ${time_rfc3339} ${level}: ${method} ${uri} ${status} ${error}\n",
	}))

	// Attach handlers
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Welcome to the meeting recorder")
	})
	e.GET("/health-check", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	// Attach session handlers
	e.POST("/sessions/start", controller.StartSession)
	e.POST("/sessions/stop", controller.StopSession)
	e.GET("/sessions/status", controller.SessionStatus)

	// Start server
	e.Logger.Fatal(e.Start(":" + port))
}
