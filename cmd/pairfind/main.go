// ./cmd/pairfind/main.go
package main

import (
	"pairfind/internal/app"
	"pairfind/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
