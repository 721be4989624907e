package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/CakeInTech/faydapass/internal/config"
	"github.com/CakeInTech/faydapass/internal/utils/tlog"

	"github.com/traefik/paerser/cli"
)

type healthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

func healthcheckCmd() *cli.Command {
	return &cli.Command{
		Name:          "healthcheck",
		Description:   "Perform a health check",
		Configuration: nil,
		Resources:     nil,
		AllowArg:      true,
		Run: func(args []string) error {
			tlog.NewSimpleLogger().Init()

			srvAddr := os.Getenv(config.DefaultNamePrefix + "SERVER_ADDRESS")
			if srvAddr == "" || srvAddr == "0.0.0.0" {
				srvAddr = "127.0.0.1"
			}

			srvPort := os.Getenv(config.DefaultNamePrefix + "SERVER_PORT")
			if srvPort == "" {
				srvPort = "3000"
			}

			serverURL := fmt.Sprintf("http://%s:%s", srvAddr, srvPort)

			if len(args) > 0 {
				serverURL = args[0]
			}

			if serverURL == "" {
				return errors.New("could not determine the server url")
			}

			tlog.App.Info().Str("server_url", serverURL).Msg("Performing health check")

			client := http.Client{
				Timeout: 30 * time.Second,
			}

			req, err := http.NewRequest("GET", serverURL+"/api/health", nil)

			if err != nil {
				return fmt.Errorf("failed to create request: %w", err)
			}

			resp, err := client.Do(req)

			if err != nil {
				return fmt.Errorf("failed to perform request: %w", err)
			}

			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("service is not healthy, got: %s", resp.Status)
			}

			var healthResp healthResponse

			body, err := io.ReadAll(resp.Body)

			if err != nil {
				return fmt.Errorf("failed to read response: %w", err)
			}

			err = json.Unmarshal(body, &healthResp)

			if err != nil {
				return fmt.Errorf("failed to decode response: %w", err)
			}

			tlog.App.Info().Interface("response", healthResp).Msg("Faydapass is healthy")

			return nil
		},
	}
}
