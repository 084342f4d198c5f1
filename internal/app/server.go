package app

import (
	"interactions-relay/internal/common/logging"
	"interactions-relay/internal/server"
)

// RunServer starts the HTTP server with all handlers configured
func (app *App) RunServer() (*server.Server, error) {
	srv := server.New(app.Handler, app.Config.Port, app.Config.TLSCertFile, app.Config.TLSKeyFile)
	if err := srv.Start(); err != nil {
		return nil, err
	}

	app.Logger.Info("Server listening",
		logging.String("addr", srv.Addr()),
		logging.Bool("tls", srv.TLS()),
		logging.Bool("publishing", app.Broker != nil),
	)
	return srv, nil
}
