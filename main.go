package main

import (
	"github.com/SaiNageswarS/go-api-boot/dotenv"
	"github.com/SaiNageswarS/shop-assist/cmd"
)

func main() {
	dotenv.LoadEnv()
	cmd.Execute()
}
