package workflow

import "github.com/teyit-cloud/teyit/internal/domain/verdict"

// StatusMessage maps a verification status to the Turkish explanation shown
// to end users. Presentation only, no decision logic.
func StatusMessage(status verdict.Status) string {
	switch status {
	case verdict.StatusVerified:
		return "Bu haber birden fazla güvenilir kaynak tarafından doğrulandı."
	case verdict.StatusLikelyTrue:
		return "Bu haber büyük ölçüde doğru görünmektedir."
	case verdict.StatusUncertain:
		return "Bu haberin doğruluğu şu anda net değil."
	case verdict.StatusDisputed:
		return "Bu haberle ilgili çelişkili veya tartışmalı bilgiler var."
	}
	return "Bu haber için yeterli doğrulama verisi bulunamadı."
}
