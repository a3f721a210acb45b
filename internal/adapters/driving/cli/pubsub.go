package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/gfacade/internal/core/domain"
)

var (
	publishAttributes  []string
	publishOrderingKey string
	pullMax            int64
	pullAck            bool
)

var pubsubCmd = &cobra.Command{
	Use:   "pubsub",
	Short: "Publish and receive Pub/Sub messages",
}

var publishCmd = &cobra.Command{
	Use:   "publish <topic> <message>...",
	Short: "Publish messages to a topic",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runPublish,
}

var pullCmd = &cobra.Command{
	Use:   "pull <subscription>",
	Short: "Pull messages from a subscription",
	Args:  cobra.ExactArgs(1),
	RunE:  runPull,
}

var ackCmd = &cobra.Command{
	Use:   "ack <subscription> <ack-id>...",
	Short: "Acknowledge pulled messages",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runAck,
}

func init() {
	publishCmd.Flags().StringArrayVarP(&publishAttributes, "attribute", "a", nil, "message attribute as key=value (repeatable)")
	publishCmd.Flags().StringVar(&publishOrderingKey, "ordering-key", "", "ordering key for every message")
	pullCmd.Flags().Int64VarP(&pullMax, "max", "n", 10, "maximum messages to pull")
	pullCmd.Flags().BoolVar(&pullAck, "ack", false, "acknowledge the pulled messages")

	pubsubCmd.AddCommand(publishCmd, pullCmd, ackCmd)
	rootCmd.AddCommand(pubsubCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	if messagingService == nil {
		return errors.New("messaging service not configured")
	}
	attrs, err := parseAttributes(publishAttributes)
	if err != nil {
		return err
	}

	messages := make([]domain.Message, 0, len(args)-1)
	for _, text := range args[1:] {
		messages = append(messages, domain.Message{
			Data:        []byte(text),
			Attributes:  attrs,
			OrderingKey: publishOrderingKey,
		})
	}

	ids, err := messagingService.Publish(context.Background(), args[0], messages...)
	if err != nil {
		return fmt.Errorf("publish failed: %w", err)
	}
	defer printStats(cmd)
	for _, id := range ids {
		cmd.Println(id)
	}
	return nil
}

func runPull(cmd *cobra.Command, args []string) error {
	if messagingService == nil {
		return errors.New("messaging service not configured")
	}
	ctx := context.Background()

	received, err := messagingService.Pull(ctx, args[0], pullMax)
	if err != nil {
		return fmt.Errorf("pull failed: %w", err)
	}
	defer printStats(cmd)

	if len(received) == 0 {
		cmd.Println("No messages.")
		return nil
	}
	data, err := json.Marshal(received)
	if err != nil {
		return fmt.Errorf("failed to marshal messages: %w", err)
	}
	if err := printJSON(cmd, data); err != nil {
		return err
	}

	if !pullAck {
		return nil
	}
	ackIDs := make([]string, 0, len(received))
	for i := range received {
		ackIDs = append(ackIDs, received[i].AckID)
	}
	if err := messagingService.Acknowledge(ctx, args[0], ackIDs...); err != nil {
		return fmt.Errorf("acknowledge failed: %w", err)
	}
	cmd.Printf("Acknowledged %d message(s)\n", len(ackIDs))
	return nil
}

func runAck(cmd *cobra.Command, args []string) error {
	if messagingService == nil {
		return errors.New("messaging service not configured")
	}
	if err := messagingService.Acknowledge(context.Background(), args[0], args[1:]...); err != nil {
		return fmt.Errorf("acknowledge failed: %w", err)
	}
	defer printStats(cmd)
	cmd.Printf("Acknowledged %d message(s)\n", len(args)-1)
	return nil
}

func parseAttributes(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	attrs := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("%w: attribute %q is not key=value", domain.ErrInvalidInput, pair)
		}
		attrs[k] = v
	}
	return attrs, nil
}
