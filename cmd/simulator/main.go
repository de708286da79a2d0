package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tutor-portal/pkg/portalclient"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type globalFlags struct {
	baseURL     string
	deviceKey   string
	sessionFile string
	timeout     time.Duration
}

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	flags := &globalFlags{}
	rootCmd := &cobra.Command{
		Use:           "simulator",
		Short:         "Companion app simulator for the tutor portal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&flags.baseURL, "url", envOr("PORTAL_URL", "http://localhost:8080"), "Portal base URL")
	rootCmd.PersistentFlags().StringVar(&flags.deviceKey, "device-key", os.Getenv("DEVICE_API_KEY"), "Device key sent with events")
	rootCmd.PersistentFlags().StringVar(&flags.sessionFile, "session", defaultSessionFile(), "Where the session is kept between runs")
	rootCmd.PersistentFlags().DurationVar(&flags.timeout, "timeout", 30*time.Second, "Overall timeout per command")

	rootCmd.AddCommand(loginCmd(flags, log))
	rootCmd.AddCommand(logoutCmd(flags, log))
	rootCmd.AddCommand(sendCmd(flags, log))
	rootCmd.AddCommand(demoCmd(flags, log))
	rootCmd.AddCommand(eventosCmd(flags))

	if err := rootCmd.Execute(); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

func loginCmd(flags *globalFlags, log *logrus.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in as a tutor and keep the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			senha, _ := cmd.Flags().GetString("senha")
			if email == "" || senha == "" {
				return fmt.Errorf("--email and --senha are required")
			}

			client, err := flags.client()
			if err != nil {
				return err
			}
			ctx, cancel := flags.context()
			defer cancel()

			s, err := client.Login(ctx, email, senha)
			if err != nil {
				return err
			}
			log.WithFields(logrus.Fields{"tutorId": s.Tutor.ID, "email": s.User.Email}).Info("Logged in")
			return nil
		},
	}
	cmd.Flags().String("email", "", "Tutor email")
	cmd.Flags().String("senha", "", "Tutor password")
	return cmd
}

func logoutCmd(flags *globalFlags, log *logrus.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke and forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := flags.restoredClient()
			if err != nil {
				return err
			}
			ctx, cancel := flags.context()
			defer cancel()

			if err := client.Logout(ctx); err != nil {
				log.Warnf("Failed to revoke session: %+v", err)
			}
			log.Info("Logged out")
			return nil
		},
	}
}

func sendCmd(flags *globalFlags, log *logrus.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a single event",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := flags.restoredClient()
			if err != nil {
				return err
			}
			ctx, cancel := flags.context()
			defer cancel()

			tutorID, idosoID, err := resolveTarget(ctx, cmd, client)
			if err != nil {
				return err
			}

			req := portalclient.EventoRequest{TutorID: tutorID, IdosoID: idosoID}
			req.Tipo, _ = cmd.Flags().GetString("tipo")
			req.Severidade, _ = cmd.Flags().GetString("severidade")
			req.Titulo, _ = cmd.Flags().GetString("titulo")
			req.Descricao, _ = cmd.Flags().GetString("descricao")
			if cmd.Flags().Changed("bateria") {
				b, _ := cmd.Flags().GetInt("bateria")
				req.Dados.Bateria = &b
			}

			evento, err := client.SendEvento(ctx, req)
			if err != nil {
				return err
			}
			log.WithFields(logrus.Fields{
				"id":         evento.ID,
				"tipo":       evento.Tipo,
				"severidade": evento.Severidade,
			}).Info("Evento sent")
			return nil
		},
	}
	addTargetFlags(cmd)
	cmd.Flags().String("tipo", "outro", "Event type")
	cmd.Flags().String("severidade", "", "Severity (defaults by type)")
	cmd.Flags().String("titulo", "", "Title (defaults by type)")
	cmd.Flags().String("descricao", "", "Description")
	cmd.Flags().Int("bateria", 0, "Battery level to report")
	return cmd
}

func demoCmd(flags *globalFlags, log *logrus.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Send a day and a half of demo events",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := flags.restoredClient()
			if err != nil {
				return err
			}
			ctx, cancel := flags.context()
			defer cancel()

			tutorID, idosoID, err := resolveTarget(ctx, cmd, client)
			if err != nil {
				return err
			}

			eventos := demoEventos(tutorID, idosoID, time.Now())
			// Oldest first so the portal's retention keeps the newest.
			for i := len(eventos) - 1; i >= 0; i-- {
				evento, err := client.SendEvento(ctx, eventos[i])
				if err != nil {
					return errors.Wrapf(err, "demo evento %q", eventos[i].Titulo)
				}
				log.WithFields(logrus.Fields{"id": evento.ID, "tipo": evento.Tipo}).Debug("Evento sent")
			}
			log.WithField("count", len(eventos)).Info("Demo eventos sent")
			return nil
		},
	}
	addTargetFlags(cmd)
	return cmd
}

func eventosCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eventos",
		Short: "List the tutor's timeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := flags.restoredClient()
			if err != nil {
				return err
			}
			ctx, cancel := flags.context()
			defer cancel()

			q := portalclient.EventoQuery{}
			q.Tipo, _ = cmd.Flags().GetString("tipo")
			q.Severidade, _ = cmd.Flags().GetString("severidade")
			q.Busca, _ = cmd.Flags().GetString("busca")

			eventos, err := client.ListEventos(ctx, q)
			if err != nil {
				return err
			}

			fmt.Printf("%-20s %-15s %-8s %-5s %s\n", "DATETIME", "TIPO", "SEV", "LIDO", "TITULO")
			for _, e := range eventos {
				fmt.Printf("%-20s %-15s %-8s %-5t %s\n",
					e.Datetime.Local().Format("2006-01-02 15:04:05"), e.Tipo, e.Severidade, e.Lido, e.Titulo)
			}
			return nil
		},
	}
	cmd.Flags().String("tipo", "", "Filter by type")
	cmd.Flags().String("severidade", "", "Filter by severity")
	cmd.Flags().String("busca", "", "Search title and description")
	return cmd
}

func addTargetFlags(cmd *cobra.Command) {
	cmd.Flags().String("tutor-id", "", "Tutor id (defaults to the stored session)")
	cmd.Flags().String("idoso-id", "", "Idoso id (defaults to the tutor's idoso)")
}

// resolveTarget fills missing ids from the stored session.
func resolveTarget(ctx context.Context, cmd *cobra.Command, client *portalclient.Client) (string, string, error) {
	tutorID, _ := cmd.Flags().GetString("tutor-id")
	idosoID, _ := cmd.Flags().GetString("idoso-id")
	if tutorID != "" && idosoID != "" {
		return tutorID, idosoID, nil
	}

	s := client.Session()
	if !s.Authenticated() {
		return "", "", fmt.Errorf("--tutor-id and --idoso-id are required without a stored session")
	}
	if tutorID == "" {
		tutorID = s.Tutor.ID
	}
	if idosoID == "" {
		idoso, err := client.GetIdoso(ctx)
		if err != nil {
			return "", "", err
		}
		idosoID = idoso.ID
	}
	return tutorID, idosoID, nil
}

func (f *globalFlags) client() (*portalclient.Client, error) {
	return portalclient.New(f.baseURL,
		portalclient.WithDeviceKey(f.deviceKey),
		portalclient.WithSessionFile(f.sessionFile),
	)
}

func (f *globalFlags) restoredClient() (*portalclient.Client, error) {
	client, err := f.client()
	if err != nil {
		return nil, err
	}
	if err := client.Restore(); err != nil {
		return nil, err
	}
	return client, nil
}

func (f *globalFlags) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), f.timeout)
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "tutor-portal", "session.json")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
