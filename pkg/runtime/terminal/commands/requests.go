package commands

import (
	"fmt"
	"strconv"

	"github.com/de-tools/relief-atlas/pkg/models/domain"
	"github.com/de-tools/relief-atlas/pkg/services/dashboard"
	"github.com/spf13/cobra"
)

var requestsHeader = []string{"ID", "RECEIVED", "LOCATION", "PEOPLE", "NEED", "CATEGORY", "STATUS", "MEDICAL", "CALLER"}

type RequestsCmd struct {
	env       *Env
	timeRange string
	search    string
	status    string
	sortKey   string
	sortDir   string
	csv       bool
}

func NewRequestsCmd(env *Env) *cobra.Command {
	rc := &RequestsCmd{env: env}
	cmd := &cobra.Command{
		Use:   "requests",
		Short: "List assistance requests",
		Args:  cobra.NoArgs,
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.timeRange, "range", "", "Time range: 24h, 3d, 7d or all")
	cmd.Flags().StringVarP(&rc.search, "search", "q", "", "Match location, need or caller number")
	cmd.Flags().StringVar(&rc.status, "status", "", "Only show requests with this status")
	cmd.Flags().StringVar(&rc.sortKey, "sort", string(domain.SortByTimestamp), "Column to sort by")
	cmd.Flags().StringVar(&rc.sortDir, "dir", string(domain.SortDesc), "Sort direction: asc or desc")
	cmd.Flags().BoolVar(&rc.csv, "csv", false, "Write CSV instead of a table")

	return cmd
}

func (rc *RequestsCmd) query() (domain.ViewQuery, error) {
	status, err := domain.ParseStatusFilter(rc.status)
	if err != nil {
		return domain.ViewQuery{}, err
	}
	key, err := domain.ParseSortKey(rc.sortKey)
	if err != nil {
		return domain.ViewQuery{}, err
	}
	dir, err := domain.ParseSortDirection(rc.sortDir)
	if err != nil {
		return domain.ViewQuery{}, err
	}
	return domain.ViewQuery{
		SearchText:    rc.search,
		StatusFilter:  status,
		SortKey:       key,
		SortDirection: dir,
	}, nil
}

func (rc *RequestsCmd) run(cmd *cobra.Command, _ []string) error {
	ctx, cancel := withTimeout(cmd.Context())
	defer cancel()

	tr, err := domain.ParseTimeRange(rc.timeRange, "")
	if err != nil {
		return err
	}
	query, err := rc.query()
	if err != nil {
		return err
	}

	svc, release, err := rc.env.Dashboard(ctx)
	if err != nil {
		return err
	}
	defer release()

	requests, err := svc.Requests(ctx, tr, query)
	if err != nil {
		return fmt.Errorf("failed to list requests: %w", err)
	}

	if rc.csv {
		return dashboard.WriteCSV(cmd.OutOrStdout(), requests.Rows)
	}

	rows := make([][]string, 0, len(requests.Rows))
	for _, r := range requests.Rows {
		medical := ""
		if r.IsUrgentMedical {
			medical = "yes"
		}
		rows = append(rows, []string{
			r.ID,
			r.ReceivedAgo,
			r.Location,
			strconv.Itoa(r.PeopleCount),
			r.NeedDescription,
			r.Category,
			r.Status,
			medical,
			r.CallerNumber,
		})
	}
	return rc.env.Table.HandleTable(requestsHeader, rows, "request")
}
