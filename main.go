package main

import (
	"context"
	"time"

	"github.com/shandysiswandi/smartotp/internal/app"
)

// @title           SmartOTP API
// @version         1.0
// @description     SmartOTP stores encrypted TOTP/HOTP accounts and generates and verifies one-time codes.
// @license.name    MIT
// @license.url     https://mit-license.org/
// @server          http://localhost:8080
// @server          https://localhost:8080
// @securityDefinitions.apikey  BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT.
func main() {
	application := app.New()
	<-application.Start()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	application.Stop(ctx)
}
