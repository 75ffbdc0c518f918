package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"ceethaluxe/internal/config"
	"ceethaluxe/internal/domain/model"
	"ceethaluxe/internal/handler"
	"ceethaluxe/internal/infra/alert"
	"ceethaluxe/internal/infra/blob"
	"ceethaluxe/internal/infra/db"
	infraRepo "ceethaluxe/internal/infra/repository"
	"ceethaluxe/internal/payment"
	"ceethaluxe/internal/server"
	"ceethaluxe/internal/state"
	"ceethaluxe/internal/usecase"
	auth "ceethaluxe/internal/usecase/auth_usecase"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func newJWTIssuer(secret string) *jwtIssuer {
	//アクセストークン
	return &jwtIssuer{
		secret:    []byte(secret),
		accessTTL: 15 * time.Minute,
	}
}

func (i *jwtIssuer) Issue(userID int64, role model.Role, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	//.envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", "err", err)
		os.Exit(1)
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.StockDeduction{},
		&model.DeliveryRate{},
	); err != nil {
		log.Error("auto migrate failed", "err", err)
		os.Exit(1)
	}

	//クライアント状態の永続化先（Redis）
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	store := state.New(state.NewRedisStorage(redisClient), state.Theme(cfg.DefaultTheme), log)

	//Repository（GORM実装）生成
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	rateRepo := infraRepo.NewDeliveryRateGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//商品画像の置き場
	images, err := blob.NewMinioImageStore(blob.MinioConfig{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
	})
	if err != nil {
		log.Error("minio init failed", "err", err)
		os.Exit(1)
	}
	if err := images.EnsureBucket(context.Background()); err != nil {
		log.Error("minio bucket init failed", "err", err)
		os.Exit(1)
	}

	//未整合注文の運用通知。AMQP未設定ならログだけ。
	var alerter alert.Alerter = alert.NopAlerter{}
	if cfg.AMQPURL != "" {
		a, err := alert.NewAMQPAlerter(cfg.AMQPURL)
		if err != nil {
			log.Error("amqp init failed", "err", err)
			os.Exit(1)
		}
		defer a.Close()
		alerter = a
	}

	//疑似決済
	provider := payment.NewSimulatedProvider(time.Duration(cfg.PaymentDelayMS) * time.Millisecond)

	//usecaseに渡す部品
	clock := &realClock{}
	hasher := auth.NewBcryptPasswordHasher(12)
	verifier := auth.NewBcryptPasswordVerifier()
	issuer := newJWTIssuer(cfg.JWTSecret)

	//Usecase生成
	productUC := usecase.NewProductUsecase(productRepo, store)
	cartUC := usecase.NewCartUsecase(store, productRepo)
	orderUC := usecase.NewOrderUsecase(txManager, orderRepo, rateRepo, provider, alerter, log)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager)
	adminProductUC := usecase.NewAdminProductUsecase(productRepo, images)
	registerUC := auth.NewRegisterUserUsecase(userRepo, hasher, clock)
	loginUC := auth.NewLoginUsecase(userRepo, verifier, issuer, clock)

	//Handler生成
	handlers := server.Handlers{
		Product:      handler.NewProductHandler(productUC),
		Cart:         handler.NewCartHandler(cartUC, store),
		Order:        handler.NewOrderHandler(orderUC, store),
		Auth:         handler.NewAuthHandler(registerUC, loginUC, store),
		AdminOrder:   handler.NewAdminOrderHandler(adminOrderUC),
		AdminProduct: handler.NewAdminProductHandler(adminProductUC),
	}

	//Server起動
	if err := server.Start(cfg, handlers); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
