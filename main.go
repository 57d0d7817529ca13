package main

import (
	"log"

	"github.com/labstack/echo/v4"

	"github.com/benhvien-dev/baocao-backend/config"
	"github.com/benhvien-dev/baocao-backend/internal/routes"
	"github.com/benhvien-dev/baocao-backend/pkg/storage/mariadb"
	"github.com/benhvien-dev/baocao-backend/ws"
)

func main() {
	cfg := config.LoadConfig()
	db := mariadb.Connect()

	hub := ws.NewHub()
	go hub.Run()

	e := echo.New()
	e.HideBanner = true
	routes.Init(e, db, hub, cfg)

	log.Printf("Server báo cáo chạy trên port %s...", cfg.Port)
	log.Fatal(e.Start(":" + cfg.Port))
}
