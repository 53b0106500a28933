package main

import (
	"github.com/entrega-app/entrega/internal/app"
	"github.com/entrega-app/entrega/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
