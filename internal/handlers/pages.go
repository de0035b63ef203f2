package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ahmetcoskunkizilkaya/accessgate/internal/dto"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/middleware"
)

const (
	msgRegistered     = "Participant registered successfully! Please assign an RFID UID."
	msgDuplicate      = "CNP, phone, email, ID card, or username already exists in the system."
	msgRegisterFailed = "Registration failed. Please try again."
	msgInvalidBody    = "Invalid request body."
	msgLoginSuccess   = "Login successful! Please scan your RFID tag."
	msgLoginFailed    = "Invalid username or password."
	msgLoginRequired  = "You must be logged in to verify your RFID tag."
	msgScanPrompt     = "Please scan your RFID tag."
	msgGranted        = "RFID verification successful! You are allowed to enter."
	msgTokenMismatch  = "RFID UID does not match. Access denied."
	msgNoPresence     = "No presence detected. Access denied."
	msgScanIncomplete = "RFID scan did not complete. Please try again."
	msgLoggedOut      = "You have been logged out."
)

var registerFields = []string{
	"name", "surname", "cnp", "id_card", "phone", "email",
	"username", "password", "address", "city", "county",
}

// render writes a page descriptor with the pending flash message followed
// by extra messages.
func render(c *fiber.Ctx, page dto.Page, extra ...dto.Flash) error {
	page.Messages = []dto.Flash{}
	if f, ok := middleware.TakeFlash(c); ok {
		page.Messages = append(page.Messages, f)
	}
	page.Messages = append(page.Messages, extra...)
	return c.JSON(page)
}

// redirect stores a flash message and sends the client to location.
func redirect(c *fiber.Ctx, location, level, message string) error {
	middleware.SetFlash(c, level, message)
	return c.Redirect(location, fiber.StatusSeeOther)
}
