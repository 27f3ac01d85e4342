package main

import (
	"github.com/Freekyn/Promptin/cmd"
	"github.com/Freekyn/Promptin/internal/logger"
)

func main() {
	defer logger.HandlePanic()
	cmd.Execute()
}
