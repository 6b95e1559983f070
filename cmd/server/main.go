package main

import "customercare/internal/app/server"

func main() {
	server.Run()
}
