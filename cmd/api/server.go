package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	mw "splitledger/internal/api/middlewares"
	"splitledger/internal/api/handlers/auth"
	"splitledger/internal/api/handlers/balances"
	"splitledger/internal/api/handlers/expenses"
	"splitledger/internal/api/handlers/groups"
	"splitledger/internal/api/handlers/settlements"
	"splitledger/internal/api/routers"
	"splitledger/internal/manager"
	"splitledger/internal/models"
	"splitledger/internal/repositories/jsonstore"
	"splitledger/internal/repositories/sqlstore"
	"splitledger/pkg/cron"
	"splitledger/pkg/utils"
)

// appStore is everything the full application needs from a store; both the
// JSON file store and the MySQL store satisfy it.
type appStore interface {
	manager.Store

	AddUser(models.User) error
	GetUser(username string) (models.User, error)
	Users() ([]models.User, error)

	AddGroup(models.Group) error
	GetGroup(id string) (models.Group, error)
	Groups() ([]models.Group, error)
}

func main() {
	godotenv.Load()

	logger := utils.NewLogger()

	var store appStore
	switch os.Getenv("STORE_DRIVER") {
	case "mysql":
		db, err := sqlstore.Connect()
		if err != nil {
			logger.Fatal("DB connection failed: ", err)
		}
		sqlStore := sqlstore.New(db)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := sqlStore.EnsureSchema(ctx); err != nil {
			cancel()
			logger.Fatal("schema setup failed: ", err)
		}
		cancel()
		store = sqlStore
	default:
		path := os.Getenv("STORE_PATH")
		if path == "" {
			path = "data/store.json"
		}
		jsonStore, err := jsonstore.Open(path)
		if err != nil {
			logger.Fatal("failed to open store: ", err)
		}
		store = jsonStore
	}

	mgr, err := manager.New(store, logger)
	if err != nil {
		logger.Fatal("failed to build ledger: ", err)
	}

	mailer, err := utils.NewMailerFromEnv()
	if err != nil {
		logger.Fatal("invalid SMTP configuration: ", err)
	}
	if mailer != nil {
		cron.StartReminderJobs(mgr, store, mailer, logger)
	}

	router := routers.MainRouter(routers.Handlers{
		Auth:        &auth.Handler{Store: store, Logger: logger},
		Expenses:    &expenses.Handler{Manager: mgr, Logger: logger},
		Settlements: &settlements.Handler{Manager: mgr, Logger: logger},
		Balances:    &balances.Handler{Manager: mgr, Logger: logger},
		Groups:      &groups.Handler{Store: store, Logger: logger},
	})

	jwtMiddleware := mw.MiddlewaresExcludePaths(mw.JWTMiddleware, "/users/signup", "/users/login")
	secureMux := jwtMiddleware(mw.SecurityHeaders(router))

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = ":8080"
	}

	server := &http.Server{
		Addr:    port,
		Handler: secureMux,
	}

	logger.Info("Server is running on port ", port)

	cert := os.Getenv("CERT_FILE")
	key := os.Getenv("KEY_FILE")
	if cert != "" && key != "" {
		err = server.ListenAndServeTLS(cert, key)
	} else {
		err = server.ListenAndServe()
	}
	if err != nil {
		logger.Fatal("Error starting the server: ", err)
	}
}
