// Package main contains the cli implementation of the destination
// connector. It uses cobra for cli tool implementation, the same
// pattern as the toolchain this connector's SQL generator and migration
// planner were adapted from.
package main

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	"motherduck-destination/internal/config"
	"motherduck-destination/internal/logging"
	"motherduck-destination/internal/pb"
	"motherduck-destination/internal/rpcserver"
)

const maxMessageSizeBytes = 50 * 1024 * 1024 // 50MB, per spec.md §6.4

type serveFlags struct {
	port      int
	tlsCert   string
	tlsKey    string
	commitSHA string
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "destination",
		Short: "MotherDuck destination connector",
	}

	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	flags := &serveFlags{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the gRPC destination-connector server",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runServe(flags)
		},
	}

	cmd.Flags().IntVar(&flags.port, "port", 50052, "Port to listen on")
	cmd.Flags().StringVar(&flags.tlsCert, "tls-cert", "", "Path to TLS certificate (optional)")
	cmd.Flags().StringVar(&flags.tlsKey, "tls-key", "", "Path to TLS key (optional)")
	cmd.Flags().StringVar(&flags.commitSHA, "commit-sha", "", "Commit SHA embedded in the MotherDuck user agent")

	return cmd
}

func runServe(flags *serveFlags) error {
	lis, err := net.Listen("tcp", fmt.Sprintf("0.0.0.0:%d", flags.port))
	if err != nil {
		return fmt.Errorf("binding to port %d: %w", flags.port, err)
	}

	opts := []grpc.ServerOption{
		grpc.ForceServerCodec(pb.Codec),
		grpc.MaxRecvMsgSize(maxMessageSizeBytes),
		grpc.MaxSendMsgSize(maxMessageSizeBytes),
	}
	if flags.tlsCert != "" && flags.tlsKey != "" {
		cert, err := tls.LoadX509KeyPair(flags.tlsCert, flags.tlsKey)
		if err != nil {
			return fmt.Errorf("loading TLS credentials: %w", err)
		}
		opts = append(opts, grpc.Creds(credentials.NewTLS(&tls.Config{Certificates: []tls.Certificate{cert}})))
	}

	env := config.LoadEnvironment()
	remoteSink := logging.NewHTTPRemoteSink(fmt.Sprintf("https://%s/log", env.MotherDuckHost), remoteSinkHTTPClient(env))

	grpcServer := grpc.NewServer(opts...)
	pb.RegisterDestinationConnectorServer(grpcServer, &rpcserver.Server{
		CommitSHA:      flags.commitSHA,
		MotherDuckHost: env.MotherDuckHost,
		RemoteSink:     remoteSink,
		SessionID:      func() string { return uuid.NewString() },
	})

	fmt.Printf("destination connector listening on 0.0.0.0:%d\n", flags.port)
	if err := grpcServer.Serve(lis); err != nil {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}

// remoteSinkHTTPClient builds the http.Client used to ship log payloads to
// env.MotherDuckHost. DisableHostCheck mirrors the original server's
// disable_host_check dev-mode escape hatch: it skips TLS certificate/host
// verification instead of the usual verified connection.
func remoteSinkHTTPClient(env config.Environment) *http.Client {
	if !env.DisableHostCheck {
		return nil
	}
	return &http.Client{
		Timeout: 5 * time.Second,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}
}
