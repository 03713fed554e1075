package auth

import (
	"golang.org/x/text/language"
)

// English comes first and is the fallback for unsupported or missing locales.
var supportedLanguages = []language.Tag{
	language.English,
	language.Thai,
}

var languageMatcher = language.NewMatcher(supportedLanguages)

// indexed as supportedLanguages
var invalidCredentialsMessages = []string{
	"Invalid username or password",
	"ชื่อผู้ใช้หรือรหัสผ่านไม่ถูกต้อง",
}

// InvalidCredentialsMessage picks the failed login message for an Accept-Language header value.
func InvalidCredentialsMessage(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return invalidCredentialsMessages[0]
	}
	_, idx, confidence := languageMatcher.Match(tags...)
	if confidence == language.No {
		return invalidCredentialsMessages[0]
	}
	return invalidCredentialsMessages[idx]
}
