// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"github.com/alvinbaena/pwd-analyzer/internal/analyzer"
	"github.com/alvinbaena/pwd-analyzer/internal/api"
	"github.com/alvinbaena/pwd-analyzer/internal/auth"
	"github.com/alvinbaena/pwd-analyzer/internal/config"
	"github.com/alvinbaena/pwd-analyzer/internal/store"
	"github.com/alvinbaena/pwd-analyzer/internal/util"
	"github.com/gin-gonic/gin"
	"github.com/likexian/selfca"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

var (
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the password analysis API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveCommand(cmd)
		},
	}
)

func init() {
	serveCmd.Flags().BoolVar(&selfTLS, "self-tls", false,
		"If the server should use a self-signed certificate when starting. The certificate is renewed on each server restart")
	serveCmd.Flags().StringVar(&tlsCert, "tls-cert", "", "Path to the PEM encoded TLS certificate to be used by the server")
	serveCmd.Flags().StringVar(&tlsKey, "tls-key", "", "Path to the PEM encoded TLS private key to be used by the server")
	serveCmd.Flags().BoolVar(&insecure, "insecure", false, "Serve plain HTTP. Only use behind a TLS terminating proxy or for development")
	serveCmd.Flags().Uint16VarP(&port, "port", "p", 3100, "Port to be used by the server")

	rootCmd.AddCommand(serveCmd)
}

func serveCommand(cmd *cobra.Command) error {
	util.ApplyCliSettings(verbose, profile, pprofPort)

	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	checker, release, err := newChecker(cfg)
	if err != nil {
		return err
	}
	defer release()
	defer checker.Report()

	services := api.Services{Hashes: checker, Stats: checker}
	var opts []analyzer.Option

	if cfg.DatabaseURL != "" {
		db, err := store.Open(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("error opening database: %w", err)
		}
		defer db.Close()

		opts = append(opts, analyzer.WithRecorder(db))
		services.History = db
	} else {
		log.Warn().Msg("DATABASE_URL is not set, checks will not be recorded and history is disabled")
	}

	if cfg.JWTSecret != "" {
		issuer, err := auth.NewIssuer(cfg.JWTSecret)
		if err != nil {
			return err
		}
		services.Tokens = issuer
	} else {
		log.Warn().Msg("JWT_SECRET is not set, every caller is anonymous")
	}

	services.Analyzer = analyzer.New(checker, opts...)

	srvAddr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              srvAddr,
		Handler:           api.NewRouter(services),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go listen(srv, cfg)

	gracefulShutdown(srv)
	util.LogMemStats("server")
	return nil
}

func listen(srv *http.Server, cfg config.Config) {
	var err error
	switch {
	case cfg.TLSCert != "" && cfg.TLSKey != "":
		log.Info().Msgf("starting TLS Server on address: %s", srv.Addr)
		err = srv.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
	case cfg.SelfTLS:
		log.Warn().Msgf("using auto self-signed certificate for TLS. This is not recommended for production. Please consider using your own certificates.")
		pair, genErr := selfSignedCertificate()
		if genErr != nil {
			log.Fatal().Err(genErr).Msg("error generating auto self-signed certificate")
		}

		srv.TLSConfig = &tls.Config{
			Certificates: []tls.Certificate{pair},
			MinVersion:   tls.VersionTLS12,
		}

		log.Info().Msgf("starting TLS Server on address: %s", srv.Addr)
		// service connections with tls config, no need to pass files
		err = srv.ListenAndServeTLS("", "")
	case cfg.Insecure:
		log.Warn().Msgf("serving plain HTTP. Passwords travel unencrypted unless a proxy terminates TLS")
		log.Info().Msgf("starting Server on address: %s", srv.Addr)
		err = srv.ListenAndServe()
	default:
		log.Fatal().Msg("server requires TLS configuration to start. " +
			"Please use either the --self-tls flag, set a certificate with the --tls-cert and --tls-key flags or use --insecure")
	}

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("error starting server")
	}
}

func selfSignedCertificate() (tls.Certificate, error) {
	caConfig := selfca.Certificate{
		IsCA:      true,
		KeySize:   2048,
		NotBefore: time.Now(),
		// 30 day self-signed cert.
		NotAfter: time.Now().Add(time.Duration(30*24) * time.Hour),
	}

	certificate, key, err := selfca.GenerateCertificate(caConfig)
	if err != nil {
		return tls.Certificate{}, err
	}

	return tls.X509KeyPair(
		pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certificate}),
		pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}),
	)
}

func gracefulShutdown(srv *http.Server) {
	// kill (no param) default send syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("server Shutdown.")
	}
	log.Info().Msg("server exiting...")
}
