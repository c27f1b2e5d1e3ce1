package main

import (
	"go.uber.org/fx"

	"github.com/Rogue-Bear-Innovations/bookmarker/internal/auth"
	"github.com/Rogue-Bear-Innovations/bookmarker/internal/config"
	"github.com/Rogue-Bear-Innovations/bookmarker/internal/db"
	"github.com/Rogue-Bear-Innovations/bookmarker/internal/logger"
	"github.com/Rogue-Bear-Innovations/bookmarker/internal/rpc"
	"github.com/Rogue-Bear-Innovations/bookmarker/internal/service"
	"github.com/Rogue-Bear-Innovations/bookmarker/internal/transport"
)

func main() {
	fx.New(
		config.Module,
		logger.Module,
		db.Module,
		fx.Provide(
			func(s *db.Store) service.Store { return s },
			fx.Annotate(auth.NewPasswordHasher, fx.As(new(service.Hasher))),
			fx.Annotate(auth.NewTokenIssuer, fx.As(new(service.TokenIssuer))),
		),
		service.Module,
		transport.Module,
		rpc.Module,
		fx.Invoke(func(*transport.HTTPServer, *rpc.Server) {}),
	).Run()
}
