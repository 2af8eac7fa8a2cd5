// Package locale holds the Turkish user-facing text of the playground.
//
// The playground is aimed at Turkish-speaking beginners, so every message a
// student can see (run results, request errors, rate limit notices) is kept
// here in one place instead of being scattered across handlers and services.
// Diagnostic hint tables live next to the classifier in internal/diagnosis.
package locale

import "fmt"

const (
	// NoOutput replaces an empty stdout of a successful run.
	NoOutput = "(Çıktı yok)"

	// TruncationMarker is appended to any text cut at the output budget.
	TruncationMarker = "\n\n... [çıktı kısaltıldı]"

	// GenericFailure is used when a failed run left nothing on stderr.
	GenericFailure = "Kod çalıştırılırken bir hata oluştu."
)

// Request validation messages returned by the HTTP layer.
const (
	InvalidRequest    = "Geçersiz istek."
	EmptyRequest      = "Boş istek."
	MalformedJSON     = "JSON formatı hatalı."
	CodeNotString     = "`code` metin (string) olmalı."
	StdinNotString    = "`stdin` metin (string) olmalı."
	StripFlagNotBool  = "`strip_input_prompts` true/false olmalı."
	EmptyCode         = "Kod alanı boş olamaz."
	InvalidLimit      = "`limit` pozitif bir tam sayı olmalı."
	JournalDown       = "Çalıştırma geçmişi şu anda kullanılamıyor."
	InternalServerErr = "Sunucuda beklenmeyen bir hata oluştu."
)

// Timeout is the message of a run killed at the deadline.
func Timeout(seconds int) string {
	return fmt.Sprintf("Kod zaman aşımına uğradı (%d saniye). Sonsuz döngü olabilir.", seconds)
}

// Unexpected is the message of a run whose interpreter could not be started.
func Unexpected(cause string) string {
	return fmt.Sprintf("Beklenmeyen bir hata oluştu: %s", cause)
}

// Canceled is the message of a run stopped because the request went away.
// It is rarely seen: the client that could read it has left.
const Canceled = "İstek iptal edildi, kod çalıştırma durduruldu."

// RateLimited tells the client how long to wait before resubmitting.
func RateLimited(retryAfter int) string {
	return fmt.Sprintf("Çok sık istek gönderildi. %d saniye sonra tekrar dene.", retryAfter)
}
