package handlers

import (
	"html"

	"github.com/gofiber/fiber/v2"

	"github.com/mentorconnect/backend/internal/services"
)

type LegalHandler struct {
	settingsService *services.SettingsService
}

func NewLegalHandler(settingsService *services.SettingsService) *LegalHandler {
	return &LegalHandler{settingsService: settingsService}
}

const legalStyle = `<meta name="viewport" content="width=device-width, initial-scale=1">
<style>body{font-family:-apple-system,BlinkMacSystemFont,sans-serif;max-width:800px;margin:0 auto;padding:20px;color:#333}h1{color:#1a1a1a}h2{color:#444;margin-top:30px}</style>`

func (h *LegalHandler) names(c *fiber.Ctx) (name, email string, err error) {
	settings, err := h.settingsService.Current(c.UserContext())
	if err != nil {
		return "", "", err
	}
	return html.EscapeString(settings.General.PlatformName), html.EscapeString(settings.General.SupportEmail), nil
}

func (h *LegalHandler) PrivacyPolicy(c *fiber.Ctx) error {
	name, email, err := h.names(c)
	if err != nil {
		return fail(c, err)
	}

	return c.Type("html").SendString(`<!DOCTYPE html>
<html><head><title>Privacy Policy - ` + name + `</title>
` + legalStyle + `
</head><body>
<h1>Privacy Policy</h1>
<p>Last updated: October 2026</p>
<h2>Information We Collect</h2>
<p>We collect your name, email address, phone number, session bookings, messages and reviews to operate the marketplace.</p>
<h2>How We Use Your Information</h2>
<p>Your data is used solely to operate ` + name + `, match students with mentors, process payments and keep the community safe.</p>
<h2>Sharing</h2>
<p>Mentors see the name and booking details of students who book them. Public reviews are visible to everyone. We do not sell your personal information.</p>
<h2>Account Deletion</h2>
<p>You can ask us to delete your account and associated data at any time.</p>
<h2>Contact</h2>
<p>For questions about this policy, contact us at ` + email + `</p>
</body></html>`)
}

func (h *LegalHandler) TermsOfService(c *fiber.Ctx) error {
	name, email, err := h.names(c)
	if err != nil {
		return fail(c, err)
	}

	return c.Type("html").SendString(`<!DOCTYPE html>
<html><head><title>Terms of Service - ` + name + `</title>
` + legalStyle + `
</head><body>
<h1>Terms of Service</h1>
<p>Last updated: October 2026</p>
<h2>Acceptance</h2>
<p>By using ` + name + `, you agree to these terms.</p>
<h2>Sessions</h2>
<p>Session requests stay pending until the mentor accepts or rejects them. Students may cancel a request only while it is pending.</p>
<h2>User Conduct</h2>
<p>You agree not to post offensive, illegal, or harmful content, or to share contact details in reviews. We reserve the right to moderate and remove content that violates our guidelines.</p>
<h2>Payments</h2>
<p>Session fees are charged through our payment provider. A platform fee is deducted from mentor earnings.</p>
<h2>Termination</h2>
<p>We may suspend or terminate accounts that violate these terms.</p>
<h2>Contact</h2>
<p>For questions, contact us at ` + email + `</p>
</body></html>`)
}
