package services

import (
	"net/http"
	"sync"

	"github.com/pkg/errors"

	"cartify/internal/domain"
	"cartify/internal/gateway"
	applog "cartify/internal/log"
	"cartify/internal/repos"
)

var ErrBadCreds = errors.New("invalid email or password")

// AuthService owns the signed-in identity. The bearer token and user record
// are mirrored into the cache so a restart resumes the session.
type AuthService struct {
	API   AuthAPI
	Cache Cache

	notifier

	mu    sync.RWMutex
	token string
	user  *domain.User
}

func NewAuthService(api AuthAPI, cache Cache) *AuthService {
	return &AuthService{API: api, Cache: cache}
}

// Restore reloads the token and user saved by a previous run.
func (s *AuthService) Restore() error {
	var tok string
	ok, err := s.Cache.Load(repos.KeyToken, &tok)
	if err != nil {
		return errors.Wrap(err, "restore token")
	}
	if !ok || tok == "" {
		return nil
	}
	var u domain.User
	hasUser, err := s.Cache.Load(repos.KeyUser, &u)
	if err != nil {
		return errors.Wrap(err, "restore user")
	}

	s.API.SetToken(tok)
	s.mu.Lock()
	s.token = tok
	if hasUser {
		s.user = &u
	}
	s.mu.Unlock()
	applog.Info(nil, "session.restore", map[string]any{"user": u.ID})
	s.publish(Event{Topic: "session", Kind: "restore", ID: u.ID})
	return nil
}

func (s *AuthService) Register(name, email, password, role string) (domain.User, error) {
	tok, err := s.API.Register(name, email, password, role)
	if err != nil {
		return domain.User{}, errors.Wrap(err, "register")
	}
	u, err := s.signIn(tok.AccessToken)
	if err != nil {
		return domain.User{}, err
	}
	applog.Audit(nil, "session.register", map[string]any{"user": u.ID, "role": u.Role})
	return u, nil
}

func (s *AuthService) Login(email, password string) (domain.User, error) {
	tok, err := s.API.Login(email, password)
	if err != nil {
		if gateway.StatusOf(err) == http.StatusUnauthorized {
			applog.Security(nil, "session.login.failed", map[string]any{"email": email})
			return domain.User{}, ErrBadCreds
		}
		return domain.User{}, errors.Wrap(err, "login")
	}
	u, err := s.signIn(tok.AccessToken)
	if err != nil {
		return domain.User{}, err
	}
	applog.Audit(nil, "session.login", map[string]any{"user": u.ID})
	return u, nil
}

func (s *AuthService) signIn(token string) (domain.User, error) {
	s.API.SetToken(token)
	rec, err := s.API.Me()
	if err != nil {
		s.API.SetToken("")
		return domain.User{}, errors.Wrap(err, "load current user")
	}
	u := userFromRecord(rec)

	s.mu.Lock()
	s.token = token
	s.user = &u
	s.mu.Unlock()
	s.persist(token, &u)
	s.publish(Event{Topic: "session", Kind: "login", ID: u.ID})
	return u, nil
}

// Reload refreshes the user record from the remote API.
func (s *AuthService) Reload() (domain.User, error) {
	if s.Token() == "" {
		return domain.User{}, ErrNotSignedIn
	}
	rec, err := s.API.Me()
	if err != nil {
		return domain.User{}, errors.Wrap(err, "reload current user")
	}
	u := userFromRecord(rec)
	return u, s.Update(u)
}

func (s *AuthService) Logout() {
	s.API.SetToken("")
	s.mu.Lock()
	var id string
	if s.user != nil {
		id = s.user.ID
	}
	s.token = ""
	s.user = nil
	s.mu.Unlock()
	for _, k := range []string{repos.KeyToken, repos.KeyUser} {
		if err := s.Cache.Delete(k); err != nil {
			applog.Error(nil, "session.cache.delete", err, map[string]any{"key": k})
		}
	}
	applog.Audit(nil, "session.logout", map[string]any{"user": id})
	s.publish(Event{Topic: "session", Kind: "logout", ID: id})
}

// CurrentUser returns the signed-in user, if any.
func (s *AuthService) CurrentUser() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}

func (s *AuthService) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Update replaces the local user record.
func (s *AuthService) Update(u domain.User) error {
	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return ErrNotSignedIn
	}
	s.user = &u
	tok := s.token
	s.mu.Unlock()
	s.persist(tok, &u)
	s.publish(Event{Topic: "session", Kind: "update", ID: u.ID})
	return nil
}

// CreditRewards adds points to the signed-in user's rewards balance.
func (s *AuthService) CreditRewards(points int) (domain.User, error) {
	u, ok := s.CurrentUser()
	if !ok {
		return domain.User{}, ErrNotSignedIn
	}
	u.Rewards += points
	return u, s.Update(u)
}

func (s *AuthService) persist(token string, u *domain.User) {
	if err := s.Cache.Save(repos.KeyToken, token); err != nil {
		applog.Error(nil, "session.cache.save", err, map[string]any{"key": repos.KeyToken})
	}
	if err := s.Cache.Save(repos.KeyUser, u); err != nil {
		applog.Error(nil, "session.cache.save", err, map[string]any{"key": repos.KeyUser})
	}
}

func userFromRecord(r gateway.UserRecord) domain.User {
	u := domain.User{
		ID:      r.ID,
		Name:    r.Name,
		Email:   r.Email,
		Role:    r.Role,
		Avatar:  r.Avatar,
		Phone:   r.Phone,
		Address: r.Address,
	}
	if r.Rewards != nil {
		u.Rewards = *r.Rewards
	}
	return u
}
