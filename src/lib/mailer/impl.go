package mailer

import (
	"fmt"
	"os"

	"wayfinder/src/config"
	"wayfinder/src/lib"
	"wayfinder/src/models"
)

func fromAddress() (string, string) {
	from := os.Getenv("MAIL_FROM")
	name := os.Getenv("MAIL_FROM_NAME")
	if name == "" {
		name = "WayFinder"
	}
	return from, name
}

func recipientName(trip *models.Trip) string {
	if trip.UserName != "" {
		return trip.UserName
	}
	return "traveler"
}

func returnDateOrNA(trip *models.Trip) string {
	if trip.ReturnDate == nil {
		return "N/A"
	}
	return trip.ReturnDate.Format(config.DATE_PARSE_FORMAT)
}

// SendTripConfirmationEmail carries the accept/reject links for a freshly
// created reservation.
func SendTripConfirmationEmail(trip *models.Trip) error {
	apiHost := os.Getenv("API_HOST")
	acceptURL := fmt.Sprintf("%s/api/v1/trips/reservas/%s/aceptar", apiHost, trip.ID)
	rejectURL := fmt.Sprintf("%s/api/v1/trips/reservas/%s/rechazar", apiHost, trip.ID)

	body := fmt.Sprintf(`
	<html>
	<body>
		<p>Hello %s,</p>
		<p>We received your trip reservation. Here are the details:</p>
		<ul>
			<li><b>Origin:</b> %s</li>
			<li><b>Destination:</b> %s</li>
			<li><b>Departure date:</b> %s</li>
			<li><b>Return date:</b> %s</li>
			<li><b>Adults:</b> %d</li>
			<li><b>Children:</b> %d</li>
			<li><b>Reservation ID:</b> %s</li>
		</ul>

		<p>Please confirm your reservation:</p>

		<a href="%s"
		style="display:inline-block;padding:10px 20px;margin:5px;background-color:#28a745;color:white;text-decoration:none;border-radius:5px;">
			Accept
		</a>
		<a href="%s"
		style="display:inline-block;padding:10px 20px;margin:5px;background-color:#dc3545;color:white;text-decoration:none;border-radius:5px;">
			Reject
		</a>

		<p>Safe travels, and thank you for choosing WayFinder!</p>
	</body>
	</html>
	`,
		recipientName(trip),
		trip.Origin,
		trip.Destination,
		trip.DepartureDate.Format(config.DATE_PARSE_FORMAT),
		returnDateOrNA(trip),
		trip.Adults,
		trip.Children,
		trip.ID,
		acceptURL,
		rejectURL,
	)

	from, fromName := fromAddress()
	return lib.SendMail(&lib.SendMailInput{
		From:     from,
		FromName: fromName,
		To:       []string{trip.UserEmail},
		Subject:  "Your WayFinder reservation",
		Body:     body,
		Html:     true,
	})
}

// SendTicketEmail delivers the paid ticket once a reservation is accepted.
// qrPath may be empty when code generation failed; the ticket still ships.
func SendTicketEmail(trip *models.Trip, ticket *models.Ticket, qrPath string) error {
	body := fmt.Sprintf(`
	<html>
	<body>
		<p>Hello %s,</p>
		<p>Your reservation has been confirmed. Your ticket is attached below:</p>
		<ul>
			<li><b>Ticket ID:</b> %s</li>
			<li><b>Origin:</b> %s</li>
			<li><b>Destination:</b> %s</li>
			<li><b>Departure date:</b> %s</li>
			<li><b>Return date:</b> %s</li>
			<li><b>Total price:</b> %.2f %s</li>
		</ul>
		<p>Present the attached code at boarding and check-in.</p>
		<p>Safe travels, and thank you for choosing WayFinder!</p>
	</body>
	</html>
	`,
		recipientName(trip),
		ticket.ID,
		trip.Origin,
		trip.Destination,
		trip.DepartureDate.Format(config.DATE_PARSE_FORMAT),
		returnDateOrNA(trip),
		trip.TotalPrice,
		trip.Currency,
	)

	var attachments []string
	if qrPath != "" {
		attachments = append(attachments, qrPath)
	}
	from, fromName := fromAddress()
	return lib.SendMail(&lib.SendMailInput{
		From:        from,
		FromName:    fromName,
		To:          []string{trip.UserEmail},
		Subject:     "Your WayFinder tickets",
		Body:        body,
		Html:        true,
		Attachments: attachments,
	})
}

func SendTripRejectedEmail(trip *models.Trip) error {
	body := fmt.Sprintf(`
	<html>
	<body>
		<p>Hello %s,</p>
		<p>Your reservation %s (%s to %s) has been rejected and will not be charged.</p>
		<p>We hope to see you again soon.</p>
	</body>
	</html>
	`,
		recipientName(trip),
		trip.ID,
		trip.Origin,
		trip.Destination,
	)

	from, fromName := fromAddress()
	return lib.SendMail(&lib.SendMailInput{
		From:     from,
		FromName: fromName,
		To:       []string{trip.UserEmail},
		Subject:  "Your WayFinder reservation was rejected",
		Body:     body,
		Html:     true,
	})
}

// SendPendingReminderEmail nudges a user whose reservation has been sitting
// in pending state.
func SendPendingReminderEmail(trip *models.Trip) error {
	body := fmt.Sprintf(`
	<html>
	<body>
		<p>Hello %s,</p>
		<p>Your reservation %s (%s to %s) is still waiting for your confirmation.
		Check your inbox for the confirmation email, or confirm it from your bookings page.</p>
	</body>
	</html>
	`,
		recipientName(trip),
		trip.ID,
		trip.Origin,
		trip.Destination,
	)

	from, fromName := fromAddress()
	return lib.SendMail(&lib.SendMailInput{
		From:     from,
		FromName: fromName,
		To:       []string{trip.UserEmail},
		Subject:  "Your WayFinder reservation is waiting",
		Body:     body,
		Html:     true,
	})
}
