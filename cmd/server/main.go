package main

import (
	"github.com/joho/godotenv"

	"wavemedia/internal/app"
)

// @title           WaveMedia API
// @version         1.0
// @description     REST API for the WaveMedia platform: news, podcasts, radio stations and the merch store.
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	_ = godotenv.Load()
	app.Run()
}
