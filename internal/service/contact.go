package service

import (
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/localabilities/portal-api/internal/dto"
	"github.com/localabilities/portal-api/internal/mail"
)

var contactUserTypeLabels = map[string]string{
	dto.ContactUserTypeCompany:    "企業",
	dto.ContactUserTypeFacility:   "就労支援施設",
	dto.ContactUserTypeIndividual: "個人",
}

// ContactService turns contact-form submissions into mail to the site
// operators. All user-supplied text is stripped of markup before it is
// embedded in the HTML body.
type ContactService struct {
	sender mail.Sender
	from   string
	to     string
	policy *bluemonday.Policy
}

func NewContactService(sender mail.Sender, from, to string) *ContactService {
	return &ContactService{
		sender: sender,
		from:   from,
		to:     to,
		policy: bluemonday.StrictPolicy(),
	}
}

// Submit validates the inquiry and mails it to the operators. The visitor's
// address goes in Reply-To so staff can answer directly.
func (s *ContactService) Submit(req dto.ContactRequest) error {
	if err := ValidateContact(req); err != nil {
		return err
	}

	msg := mail.Message{
		From:    s.from,
		To:      s.to,
		ReplyTo: req.Email,
		Subject: s.subject(req),
		HTML:    s.body(req),
	}
	if err := s.sender.Send(msg); err != nil {
		return fmt.Errorf("send contact mail: %w", err)
	}
	return nil
}

func (s *ContactService) subject(req dto.ContactRequest) string {
	label := contactUserTypeLabels[req.UserType]
	name := s.policy.Sanitize(req.Name)
	if org := s.policy.Sanitize(req.OrganizationName); org != "" && req.UserType != dto.ContactUserTypeIndividual {
		return fmt.Sprintf("【お問い合わせ】%s（%s）：%s様より", label, org, name)
	}
	return fmt.Sprintf("【お問い合わせ】%s：%s様より", label, name)
}

func (s *ContactService) body(req dto.ContactRequest) string {
	var b strings.Builder
	section := func(label, value string) {
		fmt.Fprintf(&b, "<p>【%s】<br>%s</p>", label, s.policy.Sanitize(value))
	}

	section("お問い合わせ種別", contactUserTypeLabels[req.UserType])
	switch req.UserType {
	case dto.ContactUserTypeCompany:
		section("企業名", req.OrganizationName)
		section("担当者名", req.Name)
	case dto.ContactUserTypeFacility:
		section("施設名", req.OrganizationName)
		section("担当者名", req.Name)
	default:
		section("お名前", req.Name)
	}
	section("メールアドレス", req.Email)
	if req.PhoneNumber != "" {
		section("電話番号", req.PhoneNumber)
	}

	message := s.policy.Sanitize(req.Message)
	message = strings.ReplaceAll(message, "\n", "<br>")
	fmt.Fprintf(&b, "<p>【お問い合わせ内容】<br>%s</p>", message)

	return b.String()
}
