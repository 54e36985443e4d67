package main

import "barber_backend/internal/app"

func main() {
	app.Run()
}
