package cmd

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agentwire/agentwire/pkg/agent"
	"github.com/agentwire/agentwire/pkg/client"
	"github.com/agentwire/agentwire/pkg/schema"
	"github.com/agentwire/agentwire/pkg/service"
	"github.com/agentwire/agentwire/pkg/skill"
)

var (
	portFlag int
	hostFlag string
	nameFlag string

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve a demo agent",
		Long:  longServe,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := nameFlag
			if name == "" {
				name = viper.GetString("agent.name")
			}

			ag := agent.New(agent.Config{
				Name:        name,
				Version:     viper.GetString("agent.version"),
				Description: viper.GetString("agent.description"),
				Caller:      client.NewCaller(client.New(), 0),
			})

			if err := addDemoSkills(ag); err != nil {
				return err
			}

			srv := service.New(service.Config{
				Name:        name,
				Version:     viper.GetString("agent.version"),
				Description: viper.GetString("agent.description"),
				URL:         viper.GetString("agent.url"),
			}, ag)

			addr := fmt.Sprintf("%s:%d", hostFlag, portFlag)
			log.Info("serving agent", "name", name, "addr", addr)
			return srv.Listen(addr)
		},
	}
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVarP(&portFlag, "port", "p", 3210, "Port to serve on")
	serveCmd.Flags().StringVarP(&hostFlag, "host", "H", "0.0.0.0", "Host address to bind to")
	serveCmd.Flags().StringVarP(&nameFlag, "name", "n", "", "Agent name (overrides config)")
}

func addDemoSkills(ag *agent.Agent) error {
	textDoc := schema.Object(map[string]any{"text": schema.String()}, "text")

	echo := &skill.Skill{
		Key:          "echo",
		Description:  "Returns its input text unchanged.",
		InputSchema:  schema.MustNew(textDoc),
		OutputSchema: schema.MustNew(textDoc),
		Invoke: func(ctx *skill.Context) (*skill.Result, error) {
			return &skill.Result{Output: ctx.Input}, nil
		},
		Stream: func(ctx *skill.Context, emit skill.Emit) (*skill.Result, error) {
			input, _ := ctx.Input.(map[string]any)
			text, _ := input["text"].(string)
			for _, r := range text {
				if err := emit("text", map[string]any{"text": string(r)}); err != nil {
					return nil, err
				}
			}
			return &skill.Result{Output: ctx.Input}, nil
		},
	}

	return ag.AddSkill(echo)
}

var longServe = `
Start an HTTP server exposing the demo echo skill through the full task
protocol: discovery card, synchronous and streaming entrypoints, and the
asynchronous task surface with SSE subscriptions.
`
