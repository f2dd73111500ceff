package cmd

import (
	"fmt"
	"strings"

	"github.com/christianWissmann85/claude-memory-hook/internal/config"
	"github.com/christianWissmann85/claude-memory-hook/internal/store"

	"github.com/spf13/cobra"
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Log and search notes in project memory",
}

var noteAddCmd = &cobra.Command{
	Use:   "add <content>",
	Short: "Save a note",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runNoteAdd,
}

var noteSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search saved notes",
	RunE:  runNoteSearch,
}

var (
	noteTags        []string
	noteSession     string
	noteSearchTag   string
	noteSearchLimit int
)

func init() {
	noteAddCmd.Flags().StringSliceVar(&noteTags, "tags", nil, "Comma-separated tags")
	noteAddCmd.Flags().StringVar(&noteSession, "session", "", "Session id to link the note to")
	noteSearchCmd.Flags().StringVar(&noteSearchTag, "tag", "", "Filter by tag")
	noteSearchCmd.Flags().IntVarP(&noteSearchLimit, "limit", "l", 10, "Maximum results")
	noteCmd.AddCommand(noteAddCmd)
	noteCmd.AddCommand(noteSearchCmd)
	rootCmd.AddCommand(noteCmd)
}

// runNoteAdd creates the store when it doesn't exist yet: jotting a note
// should work before the first session is ingested.
func runNoteAdd(_ *cobra.Command, args []string) error {
	projectDir, err := resolveProject()
	if err != nil {
		return err
	}

	st, err := store.Open(config.DBPath(projectDir))
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	id, err := st.InsertNote(strings.Join(args, " "), noteTags, noteSession)
	if err != nil {
		return err
	}

	tagInfo := ""
	if len(noteTags) > 0 {
		tagInfo = fmt.Sprintf(" [%s]", strings.Join(noteTags, ", "))
	}
	fmt.Printf("Note saved%s (id: %s)\n", tagInfo, shortID(id))
	return nil
}

func runNoteSearch(_ *cobra.Command, args []string) error {
	st, err := openExistingStore()
	if err != nil {
		return err
	}
	if st == nil {
		return nil
	}
	defer func() { _ = st.Close() }()

	notes, err := st.SearchNotes(strings.Join(args, " "), noteSearchTag, noteSearchLimit)
	if err != nil {
		return err
	}

	if len(notes) == 0 {
		fmt.Println("No notes found.")
		return nil
	}

	fmt.Printf("Found %d note(s)\n\n", len(notes))

	for _, n := range notes {
		tagInfo := ""
		if tags := n.TagList(); len(tags) > 0 {
			tagInfo = fmt.Sprintf(" [%s]", strings.Join(tags, ", "))
		}
		fmt.Printf("--- %s%s ---\n", n.CreatedDate(), tagInfo)
		fmt.Printf("  %s\n\n", n.Content)
	}

	return nil
}
