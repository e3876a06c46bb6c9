package daemon

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/da-committer/da-committer/committer/config"
	"github.com/da-committer/da-committer/committer/store"
	"github.com/da-committer/da-committer/connector/evm"
	"github.com/da-committer/da-committer/types"
)

func NewFragmentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fragments",
		Short: "Manage the fragments waiting to be posted.",
	}

	cmd.AddCommand(
		newFragmentsAddCmd(),
		newFragmentsShowCmd(),
	)

	return cmd
}

func newFragmentsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Queue a bundle fragment for submission.",
		Example: fmt.Sprintf(`%s fragments add --id 42 --height 1200 --file ./fragment.bin`, BinaryName),
		Args:    cobra.NoArgs,
		RunE:    addFragment,
	}

	cmd.Flags().Uint32(idFlag, 0, "Id of the fragment")
	cmd.Flags().Uint32(heightFlag, 0, "Oldest rollup height carried by the fragment's bundle")
	cmd.Flags().String(fileFlag, "", "Path to the fragment payload")
	_ = cmd.MarkFlagRequired(idFlag)
	_ = cmd.MarkFlagRequired(fileFlag)

	return cmd
}

func addFragment(cmd *cobra.Command, _ []string) error {
	id, err := cmd.Flags().GetUint32(idFlag)
	if err != nil {
		return fmt.Errorf("failed to read flag %s: %w", idFlag, err)
	}
	height, err := cmd.Flags().GetUint32(heightFlag)
	if err != nil {
		return fmt.Errorf("failed to read flag %s: %w", heightFlag, err)
	}
	file, err := cmd.Flags().GetString(fileFlag)
	if err != nil {
		return fmt.Errorf("failed to read flag %s: %w", fileFlag, err)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read fragment payload: %w", err)
	}
	if len(data) == 0 {
		return fmt.Errorf("fragment payload %s is empty", file)
	}

	homePath, err := getHomePath(cmd)
	if err != nil {
		return fmt.Errorf("failed to load home flag: %w", err)
	}
	cfg, err := config.LoadConfig(homePath)
	if err != nil {
		return fmt.Errorf("failed to load config at %s: %w", homePath, err)
	}
	// a payload the DA layer cannot carry would be re-selected forever
	if limit := maxFragmentSize(cfg.DABackend); limit > 0 && len(data) > limit {
		return fmt.Errorf("fragment payload is %d bytes, the %s backend accepts at most %d", len(data), cfg.DABackend, limit)
	}

	s, closeDB, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer func() {
		_ = closeDB()
	}()

	if err := s.AddFragments([]types.BundleFragment{{
		ID:                  types.FragmentID(id),
		Data:                data,
		OldestBlockInBundle: height,
	}}); err != nil {
		return fmt.Errorf("failed to add fragment %d: %w", id, err)
	}

	cmd.Printf("fragment %d queued (%d bytes)\n", id, len(data))

	return nil
}

// maxFragmentSize returns the largest payload the backend can post in one
// transaction, 0 when the backend has no fixed limit.
func maxFragmentSize(backend string) int {
	if backend == config.DABackendEVM {
		return evm.MaxBlobDataSize
	}

	return 0
}

type submissionOutput struct {
	SubmissionID uint64 `json:"submission_id"`
	FragmentID   uint32 `json:"fragment_id"`
	TxHash       string `json:"tx_hash"`
	BlockNumber  uint32 `json:"block_number"`
	Nonce        uint64 `json:"nonce"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
}

func newFragmentsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "show <fragment-id>",
		Short:   "Show the latest submission of a fragment.",
		Example: fmt.Sprintf(`%s fragments show 42`, BinaryName),
		Args:    cobra.ExactArgs(1),
		RunE:    showFragment,
	}
}

func showFragment(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid fragment id %s: %w", args[0], err)
	}

	s, closeDB, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer func() {
		_ = closeDB()
	}()

	sub, err := s.SubmissionForFragment(types.FragmentID(id))
	if errors.Is(err, store.ErrSubmissionNotFound) {
		cmd.Printf("fragment %d has not been submitted yet\n", id)

		return nil
	}
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(submissionOutput{
		SubmissionID: *sub.ID,
		FragmentID:   uint32(sub.FragmentID),
		TxHash:       sub.TxHash.Hex(),
		BlockNumber:  sub.BlockNumber,
		Nonce:        sub.Nonce,
		Status:       sub.Status.String(),
		CreatedAt:    sub.CreatedAt.UTC().Format(time.RFC3339),
	}, "", "  ")
	if err != nil {
		return err
	}

	cmd.Println(string(out))

	return nil
}
