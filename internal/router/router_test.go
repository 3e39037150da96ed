package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/numora-app/numora-api/internal/config"
	"github.com/numora-app/numora-api/internal/constants"
	"github.com/numora-app/numora-api/internal/models"
	"github.com/numora-app/numora-api/internal/provider"
	"github.com/numora-app/numora-api/internal/repository"
	"github.com/numora-app/numora-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAPITest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{}, &models.SessionToken{}, &models.VerifyCode{}, &models.ResetRequest{},
		&models.Video{}, &models.Faq{}, &models.Number{},
	)
	if err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.Server.Mode = "debug"
	cfg.Auth = config.AuthConfig{PasswordSalt: "router-test-salt", HashIterations: 1000}
	cfg.Security.PasswordPolicy = config.PasswordPolicyConfig{MinLength: 6}
	cfg.Email.VerifyCode = config.VerifyCodeConfig{ExpireSeconds: 300, SendIntervalSeconds: 60, MaxAttempts: 3}
	cfg.Upload = config.UploadConfig{Dir: t.TempDir(), MaxSize: 1 << 20}

	c := &provider.Container{Config: cfg}
	c.UserRepo = repository.NewUserRepository(db)
	c.SessionTokenRepo = repository.NewSessionTokenRepository(db)
	c.VerifyCodeRepo = repository.NewVerifyCodeRepository(db)
	c.ResetRequestRepo = repository.NewResetRequestRepository(db)
	c.ContentRepo = repository.NewContentRepository(db)
	c.EmailService = service.NewEmailService(&cfg.Email)
	c.CredentialService = service.NewCredentialService(&cfg.Auth)
	c.VerifyCodeService = service.NewVerifyCodeService(cfg, c.VerifyCodeRepo)
	c.SessionService = service.NewSessionService(c.SessionTokenRepo, c.UserRepo)
	c.AvatarService = service.NewAvatarService(cfg)
	c.ContentService = service.NewContentService(c.ContentRepo)
	c.AccountService = service.NewAccountService(
		cfg, c.UserRepo, c.ResetRequestRepo,
		c.CredentialService, c.VerifyCodeService, c.SessionService, c.EmailService, nil,
	)

	return SetupRouter(cfg, c), db
}

type apiEnvelope struct {
	StatusCode int                    `json:"status_code"`
	Msg        string                 `json:"msg"`
	Data       map[string]interface{} `json:"data"`
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, payload interface{}) apiEnvelope {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("encode payload failed: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("%s %s transport status want 200 got %d", method, path, w.Code)
	}
	var envelope apiEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope failed: %v (%s)", err, w.Body.String())
	}
	return envelope
}

func routerStoredCode(t *testing.T, db *gorm.DB, email, step string) string {
	t.Helper()
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		t.Fatalf("load user %s failed: %v", email, err)
	}
	var record models.VerifyCode
	if err := db.Where("user_id = ? AND step = ?", user.ID, step).First(&record).Error; err != nil {
		t.Fatalf("load code for %s/%s failed: %v", email, step, err)
	}
	return record.Code
}

func TestSignupConfirmLoginFlow(t *testing.T) {
	r, db := setupAPITest(t)

	resp := doJSON(t, r, http.MethodPost, "/signup/", "", gin.H{
		"name": "Flow", "email": "flow@example.com", "password": "secret-1",
	})
	if resp.StatusCode != 0 {
		t.Fatalf("signup want status 0 got %d (%s)", resp.StatusCode, resp.Msg)
	}
	if resp.Data["command"] != constants.CommandCheckCode {
		t.Fatalf("signup should instruct %s, got %v", constants.CommandCheckCode, resp.Data["command"])
	}

	code := routerStoredCode(t, db, "flow@example.com", constants.VerifyStepSignup)
	resp = doJSON(t, r, http.MethodPost, "/signup/confirm", "", gin.H{
		"email": "flow@example.com", "code": code,
	})
	if resp.StatusCode != 0 {
		t.Fatalf("confirm want status 0 got %d (%s)", resp.StatusCode, resp.Msg)
	}
	user, ok := resp.Data["user"].(map[string]interface{})
	if !ok {
		t.Fatalf("confirm should return the user, got %v", resp.Data)
	}
	token, _ := user["token"].(string)
	if token == "" {
		t.Fatalf("confirm should return a session token")
	}

	resp = doJSON(t, r, http.MethodGet, "/get-me/", token, nil)
	if resp.StatusCode != 0 {
		t.Fatalf("get-me want status 0 got %d (%s)", resp.StatusCode, resp.Msg)
	}
	me := resp.Data["user"].(map[string]interface{})
	if me["email"] != "flow@example.com" {
		t.Fatalf("get-me email want flow@example.com got %v", me["email"])
	}

	resp = doJSON(t, r, http.MethodPost, "/logout/", token, nil)
	if resp.StatusCode != 0 {
		t.Fatalf("logout want status 0 got %d", resp.StatusCode)
	}
	resp = doJSON(t, r, http.MethodGet, "/get-me/", token, nil)
	if resp.StatusCode != 401 {
		t.Fatalf("revoked token want 401 got %d", resp.StatusCode)
	}
}

func TestSignupConfirmWrongCode(t *testing.T) {
	r, db := setupAPITest(t)

	doJSON(t, r, http.MethodPost, "/signup/", "", gin.H{
		"email": "badcode@example.com", "password": "secret-1",
	})
	real := routerStoredCode(t, db, "badcode@example.com", constants.VerifyStepSignup)
	wrong := "0000"
	if real == wrong {
		wrong = "0001"
	}

	resp := doJSON(t, r, http.MethodPost, "/signup/confirm", "", gin.H{
		"email": "badcode@example.com", "code": wrong,
	})
	if resp.StatusCode != 400 {
		t.Fatalf("wrong code want 400 got %d", resp.StatusCode)
	}
}

func TestSignupCooldownReturns429(t *testing.T) {
	r, _ := setupAPITest(t)

	doJSON(t, r, http.MethodPost, "/signup/", "", gin.H{
		"email": "cool@example.com", "password": "secret-1",
	})
	resp := doJSON(t, r, http.MethodPost, "/signup/", "", gin.H{
		"email": "cool@example.com", "password": "secret-1",
	})
	if resp.StatusCode != 429 {
		t.Fatalf("resend within cooldown want 429 got %d (%s)", resp.StatusCode, resp.Msg)
	}
}

func TestForgotPasswordFlowOverHTTP(t *testing.T) {
	r, db := setupAPITest(t)

	doJSON(t, r, http.MethodPost, "/signup/", "", gin.H{
		"email": "reset@example.com", "password": "old-secret",
	})
	code := routerStoredCode(t, db, "reset@example.com", constants.VerifyStepSignup)
	doJSON(t, r, http.MethodPost, "/signup/confirm", "", gin.H{
		"email": "reset@example.com", "code": code,
	})

	resp := doJSON(t, r, http.MethodPost, "/forgot-password/request", "", gin.H{"email": "reset@example.com"})
	if resp.StatusCode != 0 || resp.Data["command"] != constants.CommandForgotCheckCode {
		t.Fatalf("forgot request unexpected: %d %v", resp.StatusCode, resp.Data)
	}

	code = routerStoredCode(t, db, "reset@example.com", constants.VerifyStepForgot)
	resp = doJSON(t, r, http.MethodPost, "/forgot-password/confirm", "", gin.H{
		"email": "reset@example.com", "code": code,
	})
	if resp.StatusCode != 0 {
		t.Fatalf("forgot confirm want 0 got %d (%s)", resp.StatusCode, resp.Msg)
	}
	requestID, _ := resp.Data["request_id"].(string)
	if requestID == "" || resp.Data["command"] != constants.CommandForgotPasswordSet {
		t.Fatalf("forgot confirm should return request_id and next command, got %v", resp.Data)
	}

	resp = doJSON(t, r, http.MethodPost, "/forgot-password/set", "", gin.H{
		"email": "reset@example.com", "request_id": requestID, "password": "new-secret",
	})
	if resp.StatusCode != 0 || resp.Data["command"] != constants.CommandLogin {
		t.Fatalf("forgot set unexpected: %d %v", resp.StatusCode, resp.Data)
	}

	resp = doJSON(t, r, http.MethodPost, "/login/", "", gin.H{
		"email": "reset@example.com", "password": "new-secret",
	})
	if resp.StatusCode != 0 {
		t.Fatalf("login with new password want 0 got %d (%s)", resp.StatusCode, resp.Msg)
	}

	// 票据一次性使用
	resp = doJSON(t, r, http.MethodPost, "/forgot-password/set", "", gin.H{
		"email": "reset@example.com", "request_id": requestID, "password": "again-secret",
	})
	if resp.StatusCode != 400 {
		t.Fatalf("reused ticket want 400 got %d", resp.StatusCode)
	}
}

func signupToken(t *testing.T, r *gin.Engine, db *gorm.DB, email string) string {
	t.Helper()
	doJSON(t, r, http.MethodPost, "/signup/", "", gin.H{"email": email, "password": "secret-1"})
	code := routerStoredCode(t, db, email, constants.VerifyStepSignup)
	resp := doJSON(t, r, http.MethodPost, "/signup/confirm", "", gin.H{"email": email, "code": code})
	user, ok := resp.Data["user"].(map[string]interface{})
	if !ok {
		t.Fatalf("confirm should return the user, got %v", resp.Data)
	}
	token, _ := user["token"].(string)
	if token == "" {
		t.Fatalf("confirm should return a session token")
	}
	return token
}

func TestContentEndpoints(t *testing.T) {
	r, db := setupAPITest(t)
	db.Create(&models.Faq{QuestionEN: "How?", QuestionIT: "Come?", AnswerEN: "Like this.", AnswerIT: "Così.", SortOrder: 1})
	db.Create(&models.Number{Value: 11, TitleEN: "The Intuitive", TitleIT: "L'Intuitivo"})
	token := signupToken(t, r, db, "reader@example.com")

	resp := doJSON(t, r, http.MethodGet, "/faqs/?lang=it", token, nil)
	if resp.StatusCode != 0 {
		t.Fatalf("faqs want 0 got %d", resp.StatusCode)
	}

	resp = doJSON(t, r, http.MethodGet, "/faqs/1", token, nil)
	if resp.StatusCode != 0 {
		t.Fatalf("faq detail want 0 got %d", resp.StatusCode)
	}
	faq := resp.Data["faq"].(map[string]interface{})
	if faq["question"] != "How?" {
		t.Fatalf("faq question want How? got %v", faq["question"])
	}

	resp = doJSON(t, r, http.MethodGet, "/number/?date=1990-05-29", token, nil)
	if resp.StatusCode != 0 {
		t.Fatalf("number want 0 got %d (%s)", resp.StatusCode, resp.Msg)
	}
	number := resp.Data["number"].(map[string]interface{})
	if number["value"].(float64) != 11 {
		t.Fatalf("number value want 11 got %v", number["value"])
	}

	resp = doJSON(t, r, http.MethodGet, "/number/?date=not-a-date", token, nil)
	if resp.StatusCode != 400 {
		t.Fatalf("bad date want 400 got %d", resp.StatusCode)
	}

	resp = doJSON(t, r, http.MethodGet, "/videos/", "", nil)
	if resp.StatusCode != 401 {
		t.Fatalf("content without token want 401 got %d", resp.StatusCode)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r, _ := setupAPITest(t)

	for _, route := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/get-me/"},
		{http.MethodPost, "/logout/"},
		{http.MethodPost, "/delete-me/request"},
		{http.MethodPost, "/change-info/request"},
		{http.MethodGet, "/get-avatar/"},
	} {
		resp := doJSON(t, r, route.method, route.path, "", nil)
		if resp.StatusCode != 401 {
			t.Fatalf("%s %s without token want 401 got %d", route.method, route.path, resp.StatusCode)
		}
	}
}

func TestHealth(t *testing.T) {
	r, _ := setupAPITest(t)

	resp := doJSON(t, r, http.MethodGet, "/health", "", nil)
	if resp.StatusCode != 0 || resp.Data["status"] != "ok" {
		t.Fatalf("health unexpected: %d %v", resp.StatusCode, resp.Data)
	}
}
