package configs

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

var (
	JWTSecret string

	// Payment gateway credentials. Empty value = provider not configured;
	// that gateway then accepts notifications unverified and every one of
	// them is logged as a trust downgrade.
	MidtransServerKey   string
	MidtransProduction  bool
	XenditCallbackToken string
	XenditAPIKey        string
	TripayPrivateKey    string
	TripayAPIKey        string
	TripayMerchantCode  string
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ No .env file found, using system ENV")
		} else {
			log.Println("✅ .env file loaded")
		}
	} else {
		log.Println("🚀 Running in Railway, using system ENV")
	}

	JWTSecret = GetEnv("JWT_SECRET")

	MidtransServerKey = GetEnv("MIDTRANS_SERVER_KEY")
	MidtransProduction = boolEnv("MIDTRANS_PRODUCTION")
	XenditCallbackToken = GetEnv("XENDIT_CALLBACK_TOKEN")
	XenditAPIKey = GetEnv("XENDIT_API_KEY")
	TripayPrivateKey = GetEnv("TRIPAY_PRIVATE_KEY")
	TripayAPIKey = GetEnv("TRIPAY_API_KEY")
	TripayMerchantCode = GetEnv("TRIPAY_MERCHANT_CODE")

	if JWTSecret == "" {
		log.Println("❌ JWT_SECRET is not set!")
	}
	for _, kv := range [][2]string{
		{"MIDTRANS_SERVER_KEY", MidtransServerKey},
		{"XENDIT_CALLBACK_TOKEN", XenditCallbackToken},
		{"TRIPAY_PRIVATE_KEY", TripayPrivateKey},
	} {
		if kv[1] == "" {
			log.Printf("⚠️ %s is not set — %s webhooks will run UNVERIFIED (trust downgrade)",
				kv[0], strings.ToLower(strings.SplitN(kv[0], "_", 2)[0]))
		}
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func boolEnv(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes":
		return true
	}
	return false
}
