/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct. The messages are
the German replies shown to chat users, so a handler can forward any CustomError verbatim.
*/
package errs

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user-facing message template.
var errorMap = map[int]CustomError{
	// 1xxx: Input Validation Errors
	ErrInvalidReminderTime: {Code: ErrInvalidReminderTime, Message: "Ich konnte die Uhrzeit nicht verstehen. Bitte nutze das Format hh:mm."},

	// 2xxx: Address Resolution and Collection Errors
	ErrCityNotFound:         {Code: ErrCityNotFound, Message: "Die Stadt \"%s\" konnte ich nicht finden. Bitte nenne mir erneut die Stadt in der du wohnst."},
	ErrStreetNotFound:       {Code: ErrStreetNotFound, Message: "Die Straße \"%s\" konnte ich nicht finden. Bitte nenne mir erneut die Straße in der du wohnst."},
	ErrStreetNumberNotFound: {Code: ErrStreetNumberNotFound, Message: "Die Hausnummer \"%s\" konnte ich nicht finden. Bitte nenne mir erneut deine Hausnummer."},
	ErrNoUpcomingEvents:     {Code: ErrNoUpcomingEvents, Message: "Ich habe keine anstehenden Abholtermine für dich gefunden."},

	// 3xxx: User Account Errors
	ErrUserAlreadyExists: {Code: ErrUserAlreadyExists, Message: "Du bist bereits registriert. Mit /remove kannst du deinen Account löschen."},
	ErrUserDoesNotExist:  {Code: ErrUserDoesNotExist, Message: "Du bist noch nicht registriert. Mit /register kannst du dich anmelden."},

	// 5xxx: Upstream and Internal Errors
	ErrUnknown:         {Code: ErrUnknown, Message: "Unbekannter Fehler. Bitte versuche es später erneut."},
	ErrInvalidResponse: {Code: ErrInvalidResponse, Message: "Die Abfall-App antwortet gerade nicht. Bitte versuche es später erneut."},
}
