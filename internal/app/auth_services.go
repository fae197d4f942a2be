package app

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/clients"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/identity"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/logs"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/staff"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/logger"
)

// authenticator implements the identity.Authenticator interface
type authenticator struct {
	staffRepo staff.Repository
	clients   clients.Service
	hasher    identity.PasswordHasher
	cipher    identity.Cipher
	otp       identity.OTPProvider
	tokens    identity.TokenIssuer
	logs      logs.Service
	logger    logger.Logger
}

// NewAuthenticator creates a new identity.Authenticator
func NewAuthenticator(
	staffRepo staff.Repository,
	clientService clients.Service,
	hasher identity.PasswordHasher,
	cipher identity.Cipher,
	otp identity.OTPProvider,
	tokens identity.TokenIssuer,
	logService logs.Service,
	logger logger.Logger,
) (identity.Authenticator, error) {
	return &authenticator{
		staffRepo: staffRepo,
		clients:   clientService,
		hasher:    hasher,
		cipher:    cipher,
		otp:       otp,
		tokens:    tokens,
		logs:      logService,
		logger:    logger,
	}, nil
}

func (a *authenticator) LoginStaff(ctx context.Context, req identity.LoginRequest) (*identity.Session, error) {
	member, err := a.staffRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, staff.ErrNotFound) {
			a.recordLogin(ctx, identity.RoleStaff, req.CompanyID, nil, nil, req, identity.ErrInvalidCredentials)
			return nil, identity.ErrInvalidCredentials
		}
		return nil, err
	}

	fail := func(err error) (*identity.Session, error) {
		a.recordLogin(ctx, identity.RoleStaff, member.CompanyID, &member.ID, nil, req, err)
		return nil, err
	}

	if !a.hasher.Verify(member.PasswordHash, req.Password) {
		return fail(identity.ErrInvalidCredentials)
	}
	if !member.CanLogIn() {
		return fail(identity.ErrAccountDisabled)
	}
	if member.TOTPEnabled {
		if req.OTP == "" {
			return nil, identity.ErrOTPRequired
		}
		secret, err := a.cipher.Decrypt(member.TOTPSecret)
		if err != nil {
			return nil, fmt.Errorf("failed to open two-factor secret: %w", err)
		}
		if !a.otp.Validate(req.OTP, string(secret)) {
			return fail(identity.ErrInvalidOTP)
		}
	}

	session, err := a.issue(member.ID, identity.RoleStaff, member.CompanyID)
	if err != nil {
		return nil, err
	}
	a.recordLogin(ctx, identity.RoleStaff, member.CompanyID, &member.ID, nil, req, nil)
	return session, nil
}

func (a *authenticator) LoginClient(ctx context.Context, req identity.LoginRequest) (*identity.Session, error) {
	client, err := a.clients.Authenticate(ctx, req.CompanyID, req.Username, req.Password)
	if err != nil {
		var clientID *string
		if client != nil {
			clientID = &client.ID
		}
		if errors.Is(err, identity.ErrInvalidCredentials) || errors.Is(err, identity.ErrAccountDisabled) {
			a.recordLogin(ctx, identity.RoleClient, req.CompanyID, nil, clientID, req, err)
		}
		return nil, err
	}

	session, err := a.issue(client.ID, identity.RoleClient, client.CompanyID)
	if err != nil {
		return nil, err
	}
	a.recordLogin(ctx, identity.RoleClient, client.CompanyID, nil, &client.ID, req, nil)
	return session, nil
}

func (a *authenticator) ParseSession(token string) (*identity.Claims, error) {
	return a.tokens.Parse(token)
}

// EnrollTOTP stores a new sealed secret. It stays inactive until confirmed
// with a valid code.
func (a *authenticator) EnrollTOTP(ctx context.Context, staffID string) (*identity.Enrollment, error) {
	member, err := a.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		return nil, err
	}
	if member.TOTPEnabled {
		return nil, staff.ErrOTPAlreadyActive
	}

	secret, url, err := a.otp.Generate(member.Username)
	if err != nil {
		return nil, err
	}
	sealed, err := a.cipher.Encrypt([]byte(secret))
	if err != nil {
		return nil, fmt.Errorf("failed to seal two-factor secret: %w", err)
	}

	member.TOTPSecret = sealed
	member.TOTPEnabled = false
	if err := a.staffRepo.Update(ctx, member); err != nil {
		return nil, err
	}
	return &identity.Enrollment{Secret: secret, URL: url}, nil
}

func (a *authenticator) ConfirmTOTP(ctx context.Context, staffID, code string) error {
	member, err := a.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		return err
	}
	if member.TOTPEnabled {
		return staff.ErrOTPAlreadyActive
	}
	if len(member.TOTPSecret) == 0 {
		return staff.ErrOTPNotEnrolled
	}

	secret, err := a.cipher.Decrypt(member.TOTPSecret)
	if err != nil {
		return fmt.Errorf("failed to open two-factor secret: %w", err)
	}
	if !a.otp.Validate(code, string(secret)) {
		return identity.ErrInvalidOTP
	}

	member.TOTPEnabled = true
	if err := a.staffRepo.Update(ctx, member); err != nil {
		return err
	}

	a.logger.Info("Enabled two-factor authentication for staff member ", member.ID)
	return nil
}

func (a *authenticator) DisableTOTP(ctx context.Context, staffID string) error {
	member, err := a.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		return err
	}
	if !member.TOTPEnabled && len(member.TOTPSecret) == 0 {
		return staff.ErrOTPNotEnrolled
	}

	member.TOTPSecret = nil
	member.TOTPEnabled = false
	return a.staffRepo.Update(ctx, member)
}

func (a *authenticator) issue(subject, role, companyID string) (*identity.Session, error) {
	claims := identity.Claims{Subject: subject, Role: role, CompanyID: companyID}
	token, err := a.tokens.Issue(claims)
	if err != nil {
		return nil, err
	}
	parsed, err := a.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	return &identity.Session{Token: token, Claims: *parsed}, nil
}

// recordLogin writes a user log entry. Attempts against an unknown company
// cannot be attributed and are only logged to the process log.
func (a *authenticator) recordLogin(ctx context.Context, role, companyID string, staffID, clientID *string, req identity.LoginRequest, loginErr error) {
	entry := &logs.Entry{
		CompanyID: companyID,
		Type:      logs.TypeUser,
		StaffID:   staffID,
		ClientID:  clientID,
		Summary:   fmt.Sprintf("%s login for %s succeeded", role, req.Username),
		Status:    logs.StatusSuccess,
	}
	if net.ParseIP(req.IPAddress) != nil {
		entry.IPAddress = req.IPAddress
	}
	if loginErr != nil {
		entry.Summary = fmt.Sprintf("%s login for %s failed", role, req.Username)
		entry.Detail = loginErr.Error()
		entry.Status = logs.StatusError
	}

	if companyID == "" {
		a.logger.Warn(entry.Summary, " from ", req.IPAddress)
		return
	}
	if err := a.logs.Record(ctx, entry); err != nil {
		a.logger.Error("Failed to record login attempt: ", err)
	}
}
