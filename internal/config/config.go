package config

import (
	"github.com/kelseyhightower/envconfig"
)

type App struct {
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	JWTSecret    string `envconfig:"JWT_SECRET" required:"true"`
	JWTExpireMin int    `envconfig:"JWT_EXPIRE_MIN" default:"60"`

	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	// first admin, seeded at boot when both are set
	AdminEmail    string `envconfig:"ADMIN_EMAIL"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD"`
}

func Load() (App, error) {
	var c App
	err := envconfig.Process("", &c)
	return c, err
}
