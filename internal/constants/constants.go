package constants

// 验证码步骤常量
const (
	VerifyStepSignup      = "signup"
	VerifyStepDeleteMe    = "deleteme"
	VerifyStepForgot      = "forgot"
	VerifyStepChangeEmail = "changeemail"
)

// 重置请求步骤常量
const (
	ResetStepForgotPassword = "forgot-password"
)

// 客户端指令常量（响应中的 command 字段，客户端据此决定下一步）
const (
	CommandCheckCode         = "check-code"
	CommandDeleteMeCheckCode = "delete-me-check-code"
	CommandForgotCheckCode   = "forgot-check-code"
	CommandForgotPasswordSet = "forgot-password-set"
	CommandLogin             = "login"
	CommandGetMe             = "get-me"
	CommandChangeInfoConfirm = "change-info-confirm"
)

// 队列常量
const (
	QueueDefault        = "default"
	TaskVerifyCodeEmail = "email:verify_code"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "nm"
)

// 站点语言常量
const (
	LocaleEN = "en"
	LocaleIT = "it"
)

// 支持的站点语言顺序（含回退顺序）
var SupportedLocales = []string{LocaleEN, LocaleIT}

// 头像常量
const (
	AvatarDirDefault  = "avatars"
	AvatarDefaultFile = "user.png"
)
