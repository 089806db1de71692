package storage

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"notes-auth/internal/domain"
)

// tierDocument is the on-disk layout of one storage tier. Both tiers use
// identical key names; which file a record lives in decides its retention.
type tierDocument struct {
	User             *domain.User `json:"user,omitempty"`
	AuthTimestamp    int64        `json:"authTimestamp,omitempty"`
	Token            string       `json:"jwt_token,omitempty"`
	GoogleCredential string       `json:"google_credential,omitempty"`
}

func (d *tierDocument) hasRecord() bool {
	return d.User != nil && d.AuthTimestamp != 0
}

func (d *tierDocument) dropRecord() {
	d.User = nil
	d.AuthTimestamp = 0
}

func (d *tierDocument) empty() bool {
	return d.User == nil && d.AuthTimestamp == 0 && d.Token == "" && d.GoogleCredential == ""
}

// FileStore persists the session across two single-file tiers: the
// persistent tier under a durable directory, the ephemeral tier under a
// directory cleared between OS sessions. Implements domain.SessionStore.
//
// Writes never fail from the caller's point of view: a storage error
// degrades to requesting a passcode again, so it is logged and swallowed.
type FileStore struct {
	persistentPath string
	ephemeralPath  string
	logger         *slog.Logger
	now            func() time.Time
}

// NewFileStore creates a store rooted at the two tier directories.
func NewFileStore(persistentDir, ephemeralDir string, logger *slog.Logger) *FileStore {
	return &FileStore{
		persistentPath: filepath.Join(persistentDir, "session.json"),
		ephemeralPath:  filepath.Join(ephemeralDir, "session.json"),
		logger:         logger,
		now:            time.Now,
	}
}

func (s *FileStore) path(tier domain.RetentionTier) string {
	if tier == domain.TierPersistent {
		return s.persistentPath
	}
	return s.ephemeralPath
}

func (s *FileStore) otherTier(tier domain.RetentionTier) domain.RetentionTier {
	if tier == domain.TierPersistent {
		return domain.TierEphemeral
	}
	return domain.TierPersistent
}

// Save writes the record to the chosen tier and removes any record from the
// other tier, so at most one tier ever holds a live session.
func (s *FileStore) Save(user *domain.User, token string, tier domain.RetentionTier) {
	doc := s.read(tier)
	doc.User = user
	doc.AuthTimestamp = s.now().UnixMilli()
	doc.Token = token
	s.write(tier, doc)

	other := s.otherTier(tier)
	otherDoc := s.read(other)
	otherDoc.dropRecord()
	otherDoc.Token = ""
	s.write(other, otherDoc)
}

// Load returns the live session record, checking the persistent tier first.
// An expired or partial record purges the record keys from both tiers before
// domain.ErrNoSession is reported; standalone tokens are left in place for
// the bootstrap fallback.
func (s *FileStore) Load() (*domain.SessionRecord, error) {
	for _, tier := range []domain.RetentionTier{domain.TierPersistent, domain.TierEphemeral} {
		doc := s.read(tier)
		if !doc.hasRecord() {
			continue
		}

		record := &domain.SessionRecord{
			User:     doc.User,
			Token:    doc.Token,
			Tier:     tier,
			IssuedAt: time.UnixMilli(doc.AuthTimestamp),
		}
		if record.Expired(s.now()) {
			s.purgeRecords()
			return nil, domain.ErrNoSession
		}
		return record, nil
	}
	return nil, domain.ErrNoSession
}

// Clear purges the session record and token from both tiers unconditionally.
func (s *FileStore) Clear() {
	for _, tier := range []domain.RetentionTier{domain.TierPersistent, domain.TierEphemeral} {
		doc := s.read(tier)
		doc.dropRecord()
		doc.Token = ""
		s.write(tier, doc)
	}
}

// Token returns the bearer token from either tier, persistent first.
func (s *FileStore) Token() string {
	if token := s.read(domain.TierPersistent).Token; token != "" {
		return token
	}
	return s.read(domain.TierEphemeral).Token
}

// ClearToken removes standalone token remnants from both tiers.
func (s *FileStore) ClearToken() {
	for _, tier := range []domain.RetentionTier{domain.TierPersistent, domain.TierEphemeral} {
		doc := s.read(tier)
		doc.Token = ""
		s.write(tier, doc)
	}
}

// PutCredential parks a raw federated credential until the sign-in attempt
// settles. The credential always lives in the persistent tier.
func (s *FileStore) PutCredential(raw string) {
	doc := s.read(domain.TierPersistent)
	doc.GoogleCredential = raw
	s.write(domain.TierPersistent, doc)
}

// Credential returns the parked federated credential, if any.
func (s *FileStore) Credential() string {
	return s.read(domain.TierPersistent).GoogleCredential
}

// DropCredential discards the parked federated credential.
func (s *FileStore) DropCredential() {
	doc := s.read(domain.TierPersistent)
	doc.GoogleCredential = ""
	s.write(domain.TierPersistent, doc)
}

// purgeRecords removes the record keys from both tiers, keeping tokens and
// any parked credential.
func (s *FileStore) purgeRecords() {
	for _, tier := range []domain.RetentionTier{domain.TierPersistent, domain.TierEphemeral} {
		doc := s.read(tier)
		if !doc.hasRecord() && doc.AuthTimestamp == 0 {
			continue
		}
		doc.dropRecord()
		s.write(tier, doc)
	}
}

func (s *FileStore) read(tier domain.RetentionTier) *tierDocument {
	doc := &tierDocument{}
	payload, err := os.ReadFile(s.path(tier))
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("session tier unreadable", "tier", tier.String(), "error", err)
		}
		return doc
	}
	if err := json.Unmarshal(payload, doc); err != nil {
		s.logger.Warn("session tier corrupt, discarding", "tier", tier.String(), "error", err)
		return &tierDocument{}
	}
	return doc
}

// write replaces the tier file atomically via temp file + rename. An empty
// document removes the file instead.
func (s *FileStore) write(tier domain.RetentionTier, doc *tierDocument) {
	path := s.path(tier)

	if doc.empty() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("session tier remove failed", "tier", tier.String(), "error", err)
		}
		return
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		s.logger.Warn("session tier encode failed", "tier", tier.String(), "error", err)
		return
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		s.logger.Warn("session tier dir create failed", "tier", tier.String(), "error", err)
		return
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o600); err != nil {
		s.logger.Warn("session tier write failed", "tier", tier.String(), "error", err)
		return
	}
	if err := os.Rename(tmp, path); err != nil {
		s.logger.Warn("session tier rename failed", "tier", tier.String(), "error", err)
	}
}
