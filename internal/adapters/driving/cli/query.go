package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/folio/internal/adapters/driven/upstream"
	"github.com/custodia-labs/folio/internal/core/domain"
)

// queryTimeout bounds a query against the search API.
const queryTimeout = 10 * time.Second

var (
	queryPage     int
	queryPageSize int
	queryType     string
	queryJSON     bool
	queryURL      string
)

var queryCmd = &cobra.Command{
	Use:   "query <terms...>",
	Short: "Query a running search API",
	Long: `Sends a query to a running search API and prints the ranked results.
Every term must match. Without --url the API at search.addr on this host
is used.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVar(&queryPage, "page", 1, "1-based page number")
	queryCmd.Flags().IntVarP(&queryPageSize, "page-size", "n", domain.DefaultPageSize, "results per page")
	queryCmd.Flags().StringVarP(&queryType, "type", "t", "", "only return one document type (simple-page, guide)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output results as JSON")
	queryCmd.Flags().StringVar(&queryURL, "url", "", "search API base URL")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	base := queryURL
	if base == "" {
		rt, err := loadRuntime()
		if err != nil {
			return err
		}
		base = localURL(rt.config.Search.Addr)
	}

	params := url.Values{}
	params.Set("q", strings.Join(args, " "))
	params.Set("page", strconv.Itoa(queryPage))
	params.Set("pageSize", strconv.Itoa(queryPageSize))
	if queryType != "" {
		params.Set("type", queryType)
	}
	target := strings.TrimRight(base, "/") + "/search?" + params.Encode()

	client := upstream.NewClient(upstream.Config{Timeout: queryTimeout})
	var page domain.SearchPage
	if err := client.GetJSON(cmd.Context(), target, &page); err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if queryJSON {
		return outputQueryJSON(cmd, page)
	}
	renderSearchPage(cmd.OutOrStdout(), page, stylesFor(cmd.OutOrStdout()))
	return nil
}

func outputQueryJSON(cmd *cobra.Command, page domain.SearchPage) error {
	data, err := json.MarshalIndent(page, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// renderSearchPage prints one page of results:
//
//	[N] Title (type, relevance R)
//	    /path
//	    snippet
func renderSearchPage(w io.Writer, page domain.SearchPage, st outputStyles) {
	if len(page.Results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintln(w, st.Muted.Render(fmt.Sprintf("%d results, page %d of %d", page.Total, page.Page, page.TotalPages)))
	fmt.Fprintln(w)

	offset := (page.Page - 1) * page.PageSize
	for i, r := range page.Results {
		title := r.Title
		if title == "" {
			title = r.ID
		}
		fmt.Fprintf(w, "  [%d] %s %s\n", offset+i+1, st.Title.Render(title),
			st.Label.Render(fmt.Sprintf("(%s, relevance %d)", r.Type, r.Relevance)))
		fmt.Fprintf(w, "      %s\n", st.Path.Render(r.Path))
		if r.Snippet != "" {
			fmt.Fprintf(w, "      %s\n", st.Muted.Render(r.Snippet))
		}
		fmt.Fprintln(w)
	}
}

// localURL turns a listen address into a URL reachable from this host.
func localURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	switch host {
	case "", "0.0.0.0", "::":
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}
