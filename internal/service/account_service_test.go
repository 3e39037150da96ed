package service

import (
	"context"
	"errors"
	"testing"

	"github.com/numora-app/numora-api/internal/config"
	"github.com/numora-app/numora-api/internal/constants"
	"github.com/numora-app/numora-api/internal/models"
	"github.com/numora-app/numora-api/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func setupAccountServiceTest(t *testing.T) (*AccountService, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	err = db.AutoMigrate(&models.User{}, &models.SessionToken{}, &models.VerifyCode{}, &models.ResetRequest{})
	if err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.Auth = config.AuthConfig{PasswordSalt: "test-salt", HashIterations: 1000}
	cfg.Security.PasswordPolicy = config.PasswordPolicyConfig{MinLength: 6}
	cfg.Email.VerifyCode = config.VerifyCodeConfig{ExpireSeconds: 300, SendIntervalSeconds: 60, MaxAttempts: 3}

	userRepo := repository.NewUserRepository(db)
	svc := NewAccountService(
		cfg,
		userRepo,
		repository.NewResetRequestRepository(db),
		NewCredentialService(&cfg.Auth),
		NewVerifyCodeService(cfg, repository.NewVerifyCodeRepository(db)),
		NewSessionService(repository.NewSessionTokenRepository(db), userRepo),
		NewEmailService(&cfg.Email),
		nil,
	)
	return svc, db
}

func storedVerifyCode(t *testing.T, db *gorm.DB, userID, step string) string {
	t.Helper()
	var record models.VerifyCode
	err := db.Where("user_id = ? AND step = ?", userID, step).First(&record).Error
	if err != nil {
		t.Fatalf("load verify code for %s/%s failed: %v", userID, step, err)
	}
	return record.Code
}

func signupActiveUser(t *testing.T, svc *AccountService, db *gorm.DB, email, password string) (*models.User, *models.SessionToken) {
	t.Helper()
	user, err := svc.Signup(SignupInput{Name: "Tester", Email: email, Password: password})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	code := storedVerifyCode(t, db, user.ID, constants.VerifyStepSignup)
	activated, token, err := svc.ConfirmSignup(context.Background(), email, code)
	if err != nil {
		t.Fatalf("confirm signup failed: %v", err)
	}
	return activated, token
}

func countTokens(t *testing.T, db *gorm.DB, userID string) int64 {
	t.Helper()
	var count int64
	db.Model(&models.SessionToken{}).Where("user_id = ?", userID).Count(&count)
	return count
}

func TestSignupCreatesPendingUser(t *testing.T) {
	svc, db := setupAccountServiceTest(t)

	user, err := svc.Signup(SignupInput{Name: "Ada", Email: "Ada@Example.com", Password: "secret-1"})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if user.Status {
		t.Fatalf("new account should be pending until confirmed")
	}
	if user.Email != "ada@example.com" {
		t.Fatalf("email should be normalized to lowercase, got %s", user.Email)
	}
	if user.PasswordHash == "" || user.PasswordHash == "secret-1" {
		t.Fatalf("password must be stored as digest, got %q", user.PasswordHash)
	}
	// 验证码已入库待投递
	storedVerifyCode(t, db, user.ID, constants.VerifyStepSignup)
}

func TestSignupRejectsActiveEmail(t *testing.T) {
	svc, db := setupAccountServiceTest(t)
	signupActiveUser(t, svc, db, "taken@example.com", "secret-1")

	_, err := svc.Signup(SignupInput{Email: "taken@example.com", Password: "secret-2"})
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("want ErrEmailExists, got %v", err)
	}
}

func TestSignupPendingAccountKeepsOriginalRecord(t *testing.T) {
	svc, _ := setupAccountServiceTest(t)

	first, err := svc.Signup(SignupInput{Email: "pending@example.com", Password: "secret-1"})
	if err != nil {
		t.Fatalf("first signup failed: %v", err)
	}

	// 冷却期内重复注册同一未激活邮箱：记录不变，仅收到冷却错误
	_, err = svc.Signup(SignupInput{Email: "pending@example.com", Password: "other-secret"})
	if !errors.Is(err, ErrCodeCooldown) {
		t.Fatalf("want cooldown on resend, got %v", err)
	}

	reload, err := svc.GetUser(first.ID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reload.PasswordHash != first.PasswordHash {
		t.Fatalf("pending re-signup must not overwrite original credentials")
	}
}

func TestSignupRejectsInvalidInput(t *testing.T) {
	svc, _ := setupAccountServiceTest(t)

	if _, err := svc.Signup(SignupInput{Email: "not-an-email", Password: "secret-1"}); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("want ErrInvalidEmail, got %v", err)
	}
	if _, err := svc.Signup(SignupInput{Email: "ok@example.com", Password: "abc"}); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("want ErrWeakPassword, got %v", err)
	}
}

func TestConfirmSignupActivatesAndIssuesToken(t *testing.T) {
	svc, db := setupAccountServiceTest(t)

	user, token := signupActiveUser(t, svc, db, "new@example.com", "secret-1")
	if !user.Status {
		t.Fatalf("confirmed account should be active")
	}
	if token == nil || token.Token == "" {
		t.Fatalf("confirmation should issue a session token")
	}

	resolved, err := NewSessionService(
		repository.NewSessionTokenRepository(db),
		repository.NewUserRepository(db),
	).Resolve(context.Background(), token.Token)
	if err != nil {
		t.Fatalf("issued token should resolve: %v", err)
	}
	if resolved.ID != user.ID {
		t.Fatalf("token should resolve to its owner")
	}
}

func TestConfirmSignupAlreadyActive(t *testing.T) {
	svc, db := setupAccountServiceTest(t)

	user, _ := signupActiveUser(t, svc, db, "active@example.com", "secret-1")

	_, _, err := svc.ConfirmSignup(context.Background(), user.Email, "1234")
	if !errors.Is(err, ErrAccountAlreadyActive) {
		t.Fatalf("want ErrAccountAlreadyActive, got %v", err)
	}
}

func TestConfirmSignupWrongCode(t *testing.T) {
	svc, _ := setupAccountServiceTest(t)

	user, err := svc.Signup(SignupInput{Email: "wrong@example.com", Password: "secret-1"})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	_, _, err = svc.ConfirmSignup(context.Background(), "wrong@example.com", "0000")
	if !errors.Is(err, ErrCodeMismatch) && !errors.Is(err, ErrCodeNotFound) {
		t.Fatalf("want code error, got %v", err)
	}
	reload, err := svc.GetUser(user.ID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reload.Status {
		t.Fatalf("failed confirmation must not activate the account")
	}
}

func TestLogin(t *testing.T) {
	svc, db := setupAccountServiceTest(t)
	user, _ := signupActiveUser(t, svc, db, "login@example.com", "secret-1")

	logged, token, err := svc.Login("login@example.com", "secret-1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if logged.ID != user.ID || token == nil {
		t.Fatalf("login should return the user and a fresh token")
	}

	if _, _, err := svc.Login("login@example.com", "wrong-pass"); !errors.Is(err, ErrIncorrectPassword) {
		t.Fatalf("want ErrIncorrectPassword, got %v", err)
	}
	if _, _, err := svc.Login("nobody@example.com", "secret-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestLogoutRevokesOnlyCurrentToken(t *testing.T) {
	svc, db := setupAccountServiceTest(t)
	user, first := signupActiveUser(t, svc, db, "multi@example.com", "secret-1")

	_, second, err := svc.Login("multi@example.com", "secret-1")
	if err != nil {
		t.Fatalf("second login failed: %v", err)
	}

	if err := svc.Logout(context.Background(), first.Token); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if got := countTokens(t, db, user.ID); got != 1 {
		t.Fatalf("other sessions should survive, want 1 token got %d", got)
	}
	var remaining models.SessionToken
	if err := db.First(&remaining, "token = ?", second.Token).Error; err != nil {
		t.Fatalf("second token should remain valid: %v", err)
	}
}

func TestDeleteFlowRemovesEverything(t *testing.T) {
	svc, db := setupAccountServiceTest(t)
	user, _ := signupActiveUser(t, svc, db, "gone@example.com", "secret-1")

	if err := svc.RequestDelete(user.ID, ""); err != nil {
		t.Fatalf("request delete failed: %v", err)
	}
	code := storedVerifyCode(t, db, user.ID, constants.VerifyStepDeleteMe)
	if err := svc.ConfirmDelete(context.Background(), user.ID, code); err != nil {
		t.Fatalf("confirm delete failed: %v", err)
	}

	if _, err := svc.GetUser(user.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted user should be gone, got %v", err)
	}
	if got := countTokens(t, db, user.ID); got != 0 {
		t.Fatalf("tokens should be purged, got %d", got)
	}
	var codes int64
	db.Model(&models.VerifyCode{}).Where("user_id = ?", user.ID).Count(&codes)
	if codes != 0 {
		t.Fatalf("verify codes should be purged, got %d", codes)
	}
}

func TestForgotPasswordFlow(t *testing.T) {
	svc, db := setupAccountServiceTest(t)
	user, _ := signupActiveUser(t, svc, db, "forgot@example.com", "old-secret")

	if err := svc.RequestPasswordReset("forgot@example.com", ""); err != nil {
		t.Fatalf("request reset failed: %v", err)
	}
	code := storedVerifyCode(t, db, user.ID, constants.VerifyStepForgot)

	request, err := svc.ConfirmPasswordReset("forgot@example.com", code)
	if err != nil {
		t.Fatalf("confirm reset failed: %v", err)
	}
	if request.UserID != user.ID || request.Step != constants.ResetStepForgotPassword {
		t.Fatalf("unexpected reset request %+v", request)
	}

	err = svc.SetPasswordByReset(context.Background(), "forgot@example.com", request.ID, "new-secret")
	if err != nil {
		t.Fatalf("set password failed: %v", err)
	}

	// 新口令可登录，旧口令失效，旧令牌全部撤销
	if _, _, err := svc.Login("forgot@example.com", "new-secret"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
	if _, _, err := svc.Login("forgot@example.com", "old-secret"); !errors.Is(err, ErrIncorrectPassword) {
		t.Fatalf("old password should be rejected, got %v", err)
	}
}

func TestSetPasswordByResetSingleUse(t *testing.T) {
	svc, db := setupAccountServiceTest(t)
	user, _ := signupActiveUser(t, svc, db, "single@example.com", "old-secret")

	if err := svc.RequestPasswordReset("single@example.com", ""); err != nil {
		t.Fatalf("request reset failed: %v", err)
	}
	code := storedVerifyCode(t, db, user.ID, constants.VerifyStepForgot)
	request, err := svc.ConfirmPasswordReset("single@example.com", code)
	if err != nil {
		t.Fatalf("confirm reset failed: %v", err)
	}

	if err := svc.SetPasswordByReset(context.Background(), "single@example.com", request.ID, "new-secret"); err != nil {
		t.Fatalf("first consume failed: %v", err)
	}
	err = svc.SetPasswordByReset(context.Background(), "single@example.com", request.ID, "another-secret")
	if !errors.Is(err, ErrRequestNotFound) {
		t.Fatalf("second consume want ErrRequestNotFound, got %v", err)
	}
}

func TestSetPasswordByResetRevokesSessions(t *testing.T) {
	svc, db := setupAccountServiceTest(t)
	user, _ := signupActiveUser(t, svc, db, "revoke@example.com", "old-secret")

	if err := svc.RequestPasswordReset("revoke@example.com", ""); err != nil {
		t.Fatalf("request reset failed: %v", err)
	}
	code := storedVerifyCode(t, db, user.ID, constants.VerifyStepForgot)
	request, err := svc.ConfirmPasswordReset("revoke@example.com", code)
	if err != nil {
		t.Fatalf("confirm reset failed: %v", err)
	}
	if err := svc.SetPasswordByReset(context.Background(), "revoke@example.com", request.ID, "new-secret"); err != nil {
		t.Fatalf("set password failed: %v", err)
	}
	if got := countTokens(t, db, user.ID); got != 0 {
		t.Fatalf("password reset should revoke all tokens, got %d", got)
	}
}

func TestSetPasswordByResetPurgesLeftoverArtifacts(t *testing.T) {
	svc, db := setupAccountServiceTest(t)
	user, _ := signupActiveUser(t, svc, db, "purge@example.com", "old-secret")

	if err := svc.RequestPasswordReset("purge@example.com", ""); err != nil {
		t.Fatalf("request reset failed: %v", err)
	}
	code := storedVerifyCode(t, db, user.ID, constants.VerifyStepForgot)
	request, err := svc.ConfirmPasswordReset("purge@example.com", code)
	if err != nil {
		t.Fatalf("confirm reset failed: %v", err)
	}

	// 制造残留：额外的重置凭据与未消费的 forgot 验证码
	stale := models.ResetRequest{ID: uuid.NewString(), Step: constants.ResetStepForgotPassword, UserID: user.ID}
	if err := db.Create(&stale).Error; err != nil {
		t.Fatalf("create stale request failed: %v", err)
	}
	leftover := models.VerifyCode{UserID: user.ID, Step: constants.VerifyStepForgot, Code: "4321"}
	if err := db.Create(&leftover).Error; err != nil {
		t.Fatalf("create leftover code failed: %v", err)
	}

	if err := svc.SetPasswordByReset(context.Background(), "purge@example.com", request.ID, "new-secret"); err != nil {
		t.Fatalf("set password failed: %v", err)
	}

	var requests int64
	db.Model(&models.ResetRequest{}).Where("user_id = ?", user.ID).Count(&requests)
	if requests != 0 {
		t.Fatalf("reset should purge leftover requests, got %d", requests)
	}
	var codes int64
	db.Model(&models.VerifyCode{}).Where("user_id = ? AND step = ?", user.ID, constants.VerifyStepForgot).Count(&codes)
	if codes != 0 {
		t.Fatalf("reset should discard leftover forgot codes, got %d", codes)
	}
}

func TestChangeInfoNameOnly(t *testing.T) {
	svc, db := setupAccountServiceTest(t)
	user, _ := signupActiveUser(t, svc, db, "rename@example.com", "secret-1")

	result, err := svc.RequestChangeInfo(context.Background(), user.ID, ChangeInfoInput{Name: "New Name"})
	if err != nil {
		t.Fatalf("change info failed: %v", err)
	}
	if result.EmailChangeRequested {
		t.Fatalf("name change must not trigger email confirmation")
	}
	if result.User.Name != "New Name" {
		t.Fatalf("name should be updated immediately, got %s", result.User.Name)
	}
	if got := countTokens(t, db, user.ID); got != 1 {
		t.Fatalf("name change must not revoke sessions, got %d tokens", got)
	}
}

func TestChangeInfoPasswordRevokesSessions(t *testing.T) {
	svc, db := setupAccountServiceTest(t)
	user, _ := signupActiveUser(t, svc, db, "newpass@example.com", "secret-1")

	result, err := svc.RequestChangeInfo(context.Background(), user.ID, ChangeInfoInput{Password: "secret-2"})
	if err != nil {
		t.Fatalf("change password failed: %v", err)
	}
	if result.EmailChangeRequested {
		t.Fatalf("password change must not trigger email confirmation")
	}
	if got := countTokens(t, db, user.ID); got != 0 {
		t.Fatalf("password change should revoke all tokens, got %d", got)
	}
	if _, _, err := svc.Login("newpass@example.com", "secret-2"); err != nil {
		t.Fatalf("login with changed password failed: %v", err)
	}
}

func TestChangeInfoEmailFlow(t *testing.T) {
	svc, db := setupAccountServiceTest(t)
	user, _ := signupActiveUser(t, svc, db, "old-mail@example.com", "secret-1")

	result, err := svc.RequestChangeInfo(context.Background(), user.ID, ChangeInfoInput{NewEmail: "new-mail@example.com"})
	if err != nil {
		t.Fatalf("request email change failed: %v", err)
	}
	if !result.EmailChangeRequested {
		t.Fatalf("email change should require confirmation")
	}
	if result.User.Email != "old-mail@example.com" {
		t.Fatalf("email must not switch before confirmation, got %s", result.User.Email)
	}

	code := storedVerifyCode(t, db, user.ID, constants.VerifyStepChangeEmail)
	updated, err := svc.ConfirmChangeInfo(context.Background(), user.ID, code)
	if err != nil {
		t.Fatalf("confirm email change failed: %v", err)
	}
	if updated.Email != "new-mail@example.com" || updated.PendingEmail != "" {
		t.Fatalf("email should switch after confirmation, got %s / pending %q", updated.Email, updated.PendingEmail)
	}
	if got := countTokens(t, db, user.ID); got != 0 {
		t.Fatalf("email change should revoke all tokens, got %d", got)
	}
	if _, _, err := svc.Login("new-mail@example.com", "secret-1"); err != nil {
		t.Fatalf("login with new email failed: %v", err)
	}
}

func TestChangeInfoEmailTakenByActiveAccount(t *testing.T) {
	svc, db := setupAccountServiceTest(t)
	signupActiveUser(t, svc, db, "holder@example.com", "secret-1")
	user, _ := signupActiveUser(t, svc, db, "claimer@example.com", "secret-1")

	_, err := svc.RequestChangeInfo(context.Background(), user.ID, ChangeInfoInput{NewEmail: "holder@example.com"})
	if !errors.Is(err, ErrEmailInUse) {
		t.Fatalf("want ErrEmailInUse, got %v", err)
	}
}

func TestConfirmChangeInfoWithoutPendingEmail(t *testing.T) {
	svc, db := setupAccountServiceTest(t)
	user, _ := signupActiveUser(t, svc, db, "nochange@example.com", "secret-1")

	if _, err := svc.ConfirmChangeInfo(context.Background(), user.ID, "1234"); !errors.Is(err, ErrCodeNotFound) {
		t.Fatalf("want ErrCodeNotFound without pending email, got %v", err)
	}
}
