package main

import (
	"github.com/tansive/restadapter/internal/cli"
)

func main() {
	cli.Execute()
}
