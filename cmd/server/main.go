// @title           InkFlow Session State API
// @version         1.0
// @description     Persists, versions, restores and re-owns conversational work product for the InkFlow content-drafting application.
// @BasePath        /api/v1
package main

import (
	"os"

	"inkflow/backend/internal/app"
)

func main() {
	os.Exit(app.Run())
}
