package main

import "checkin/internal/app/server"

func main() {
	server.Run()
}
