// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/bank-ledger/internal/accountdelivery"
	"github.com/go-petr/bank-ledger/internal/accountrepo"
	"github.com/go-petr/bank-ledger/internal/accountservice"
	"github.com/go-petr/bank-ledger/internal/clientdirectory"
	"github.com/go-petr/bank-ledger/internal/memstore"
	"github.com/go-petr/bank-ledger/internal/middleware"
	"github.com/go-petr/bank-ledger/internal/movementdelivery"
	"github.com/go-petr/bank-ledger/internal/movementrepo"
	"github.com/go-petr/bank-ledger/internal/movementservice"
	"github.com/go-petr/bank-ledger/pkg/configpkg"
	"github.com/go-petr/bank-ledger/pkg/validatorpkg"
)

// Server holds db connection, handlers router and configuration.
//
// DB is nil when the server runs on the in-memory stores.
type Server struct {
	DB     *sql.DB
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

type repos struct {
	accounts  accountservice.Repo
	movements movementservice.Repo
}

func newRepos(conn *sql.DB, config configpkg.Config) (repos, error) {
	if config.DBDriver == configpkg.MemoryDriver {
		store := memstore.New()
		return repos{accounts: store.Accounts(), movements: store.Movements()}, nil
	}

	if conn == nil {
		return repos{}, fmt.Errorf("driver %q needs a database connection", config.DBDriver)
	}

	return repos{
		accounts:  accountrepo.NewRepoPGS(conn),
		movements: movementrepo.NewRepoPGS(conn),
	}, nil
}

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	r, err := newRepos(conn, config)
	if err != nil {
		return nil, err
	}

	directory := clientdirectory.New(config)

	accountService := accountservice.New(r.accounts, directory)
	movementService := movementservice.New(r.movements, accountService, directory)

	accountHandler := accountdelivery.NewHandler(accountService)
	movementHandler := movementdelivery.NewHandler(movementService)

	if err := validatorpkg.RegisterGin(); err != nil {
		return nil, errors.New("cannot register request validators")
	}

	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.POST("/accounts", accountHandler.Create)
	engine.GET("/accounts", accountHandler.List)
	engine.GET("/accounts/:number", accountHandler.Get)
	engine.PUT("/accounts/:number", accountHandler.Update)

	engine.POST("/movements", movementHandler.Create)
	engine.GET("/movements/report", movementHandler.Report)
	engine.GET("/movements/:number", movementHandler.List)

	server := &Server{
		DB:     conn,
		Engine: engine,
		Config: config,
	}

	return server, nil
}
