package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/mentorconnect/backend/internal/dto"
	"github.com/mentorconnect/backend/internal/models"
	"github.com/mentorconnect/backend/internal/repository"
)

var (
	ErrReportNotFound = errors.New("report not found")
	ErrAlreadyBlocked = errors.New("user already blocked")
	ErrSelfBlock      = errors.New("cannot block yourself")
	ErrBlockNotFound  = errors.New("block not found")
	ErrInvalidReport  = errors.New("invalid report")
	ErrUserNotFound   = errors.New("user not found")
)

var BannedWords = []string{
	"fuck", "fucking", "fucker", "shit", "shitty", "bullshit",
	"ass", "asshole", "bastard", "bitch", "cunt",
	"nigger", "nigga", "chink", "spic", "kike", "faggot", "fag",
	"retard", "retarded", "tranny",
	"porn", "porno", "nude", "nudes",
	"spam", "scam", "scammer", "phishing", "malware",
}

// ModerationService filters user-written text and manages reports and
// blocks.
type ModerationService struct {
	store               repository.Store
	bannedWordRegexps   []*regexp.Regexp
	urlPattern          *regexp.Regexp
	emailPattern        *regexp.Regexp
	phonePattern        *regexp.Regexp
	repeatedCharPattern *regexp.Regexp
	allCapsPattern      *regexp.Regexp
	compiled            bool
	mu                  sync.RWMutex
}

func NewModerationService(store repository.Store) *ModerationService {
	ms := &ModerationService{store: store}
	ms.compilePatterns()
	return ms
}

func (ms *ModerationService) compilePatterns() {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.compiled {
		return
	}

	ms.bannedWordRegexps = make([]*regexp.Regexp, 0, len(BannedWords))
	for _, word := range BannedWords {
		pattern := `(?i)\b` + regexp.QuoteMeta(word) + `\b`
		re, err := regexp.Compile(pattern)
		if err == nil {
			ms.bannedWordRegexps = append(ms.bannedWordRegexps, re)
		}
	}

	ms.urlPattern = regexp.MustCompile(`(?i)(https?://\S+|www\.\S+\.\S+)`)
	ms.emailPattern = regexp.MustCompile(`(?i)\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)
	ms.phonePattern = regexp.MustCompile(`\d{3}[-.\s]?\d{3}[-.\s]?\d{4}|\(\d{3}\)\s*\d{3}[-.\s]?\d{4}`)
	ms.repeatedCharPattern = regexp.MustCompile(`(?i)(a{4,}|b{4,}|c{4,}|d{4,}|e{4,}|f{4,}|g{4,}|h{4,}|i{4,}|j{4,}|k{4,}|l{4,}|m{4,}|n{4,}|o{4,}|p{4,}|q{4,}|r{4,}|s{4,}|t{4,}|u{4,}|v{4,}|w{4,}|x{4,}|y{4,}|z{4,}|!{4,}|\?{4,}|\.{4,})`)
	ms.allCapsPattern = regexp.MustCompile(`[A-Z]{5,}`)
	ms.compiled = true
}

func (ms *ModerationService) FilterContent(text string) (bool, string) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	if text == "" {
		return true, ""
	}
	for _, re := range ms.bannedWordRegexps {
		if re.MatchString(text) {
			return false, "inappropriate_language"
		}
	}
	if ms.urlPattern.MatchString(text) {
		return false, "url_not_allowed"
	}
	if ms.emailPattern.MatchString(text) {
		return false, "contact_info_not_allowed"
	}
	if ms.phonePattern.MatchString(text) {
		return false, "contact_info_not_allowed"
	}
	if ms.repeatedCharPattern.MatchString(text) {
		return false, "spam_detected"
	}
	capsMatches := ms.allCapsPattern.FindAllString(text, -1)
	if len(capsMatches) > 2 {
		return false, "excessive_caps"
	}
	return true, ""
}

func (ms *ModerationService) ContainsProfanity(text string) bool {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	for _, re := range ms.bannedWordRegexps {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func (ms *ModerationService) GetRejectionMessage(reason string) string {
	messages := map[string]string{
		"inappropriate_language":   "Your response contains inappropriate language.",
		"url_not_allowed":          "URLs and web links are not allowed.",
		"contact_info_not_allowed": "Contact information is not allowed.",
		"spam_detected":            "Your response appears to be spam.",
		"excessive_caps":           "Please avoid using excessive capital letters.",
	}
	if msg, ok := messages[reason]; ok {
		return msg
	}
	return "Your response does not meet our content guidelines."
}

var reportableTypes = map[string]bool{"user": true, "session": true, "review": true, "message": true}

func (s *ModerationService) CreateReport(ctx context.Context, reporterID uuid.UUID, req *dto.CreateReportRequest) (*models.Report, error) {
	if !reportableTypes[req.ContentType] {
		return nil, fmt.Errorf("%w: content type must be user, session, review, or message", ErrInvalidReport)
	}
	if strings.TrimSpace(req.Reason) == "" {
		return nil, fmt.Errorf("%w: reason is required", ErrInvalidReport)
	}

	report := models.Report{
		ReporterID:  reporterID,
		ContentType: req.ContentType,
		ContentID:   req.ContentID,
		Reason:      strings.TrimSpace(req.Reason),
		Status:      models.ReportPending,
	}
	if err := s.store.Moderation().CreateReport(ctx, &report); err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	return &report, nil
}

func (s *ModerationService) ListReports(ctx context.Context, status string, limit, offset int) ([]models.Report, int64, error) {
	return s.store.Moderation().ListReports(ctx, status, limit, offset)
}

func (s *ModerationService) ActionReport(ctx context.Context, reportID uuid.UUID, req *dto.ActionReportRequest) error {
	switch req.Status {
	case models.ReportReviewed, models.ReportActioned, models.ReportDismissed:
	default:
		return fmt.Errorf("%w: status must be reviewed, actioned, or dismissed", ErrInvalidReport)
	}

	err := s.store.Moderation().UpdateReport(ctx, reportID, req.Status, req.AdminNote)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrReportNotFound
	}
	return err
}

func (s *ModerationService) BlockUser(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	if blockerID == blockedID {
		return ErrSelfBlock
	}
	if _, err := s.store.Users().FindByID(ctx, blockedID); errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	} else if err != nil {
		return err
	}

	if _, err := s.store.Moderation().FindBlock(ctx, blockerID, blockedID); err == nil {
		return ErrAlreadyBlocked
	}

	block := models.Block{BlockerID: blockerID, BlockedID: blockedID}
	err := s.store.Moderation().CreateBlock(ctx, &block)
	if errors.Is(err, repository.ErrDuplicate) {
		return ErrAlreadyBlocked
	}
	return err
}

func (s *ModerationService) UnblockUser(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	err := s.store.Moderation().DeleteBlock(ctx, blockerID, blockedID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrBlockNotFound
	}
	return err
}

// Blocked reports whether either user has blocked the other.
func (s *ModerationService) Blocked(ctx context.Context, a, b uuid.UUID) (bool, error) {
	return s.store.Moderation().Blocked(ctx, a, b)
}
