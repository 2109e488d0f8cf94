package main

import (
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/mloptapang/primero/internal/db"
	"github.com/mloptapang/primero/internal/indicator"
	"github.com/mloptapang/primero/internal/model"
	"github.com/mloptapang/primero/internal/reporting"
	"github.com/mloptapang/primero/internal/repository"
	"github.com/mloptapang/primero/internal/searchfilter"
	"github.com/mloptapang/primero/internal/service"
)

type indicatorCmd struct {
	user      model.User
	scope     string
	groups    string
	groupedBy string
	from      string
	to        string
	values    []string
}

func newIndicatorCmd() *cobra.Command {
	return (&indicatorCmd{}).command()
}

func (ic *indicatorCmd) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "indicator <name>",
		Short:     "Compute one indicator and print it as JSON",
		Args:      cobra.ExactArgs(1),
		ValidArgs: indicator.Names(),
		RunE:      ic.run,
	}

	cmd.Flags().StringVar(&ic.scope, "scope", string(model.ScopeAll), "Scope of the requesting user (self, group, agency, all)")
	cmd.Flags().StringVar(&ic.user.UserName, "user", "", "User name for the self scope")
	cmd.Flags().StringVar(&ic.groups, "groups", "", "Comma separated user groups for the group scope")
	cmd.Flags().StringVar(&ic.user.AgencyID, "agency", "", "Agency for the agency scope")
	cmd.Flags().StringVar(&ic.groupedBy, "grouped-by", "", "Split by year, quarter or month")
	cmd.Flags().StringVar(&ic.from, "from", "", "Start date (YYYY-MM-DD) of the indicator date field")
	cmd.Flags().StringVar(&ic.to, "to", "", "End date (YYYY-MM-DD) of the indicator date field")
	cmd.Flags().StringArrayVar(&ic.values, "filter", nil, "Value filter field=v1,v2; repeat for more fields")

	return cmd
}

func (ic *indicatorCmd) run(cmd *cobra.Command, args []string) error {
	def, err := indicator.Lookup(args[0])
	if err != nil {
		return err
	}

	filters, err := ic.filters(def)
	if err != nil {
		return err
	}

	ctx, cfg, err := bootstrap(cmd)
	if err != nil {
		return err
	}

	conn, err := db.NewConnection(ctx, cfg)
	if err != nil {
		return errors.Wrap(err, "connect clickhouse")
	}
	defer conn.Close()

	ic.user.Scope = model.Scope(ic.scope)
	for _, g := range strings.Split(ic.groups, ",") {
		if g = strings.TrimSpace(g); g != "" {
			ic.user.GroupIDs = append(ic.user.GroupIDs, g)
		}
	}

	svc := service.NewIndicatorService(repository.NewRecordRepository(conn), cfg.BucketConcurrency)
	result, err := svc.Data(ctx, def.Name, &ic.user, filters)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func (ic *indicatorCmd) filters(def indicator.Definition) (map[string]searchfilter.Filter, error) {
	filters := map[string]searchfilter.Filter{}
	if ic.groupedBy != "" {
		filters[reporting.GroupedByField] = searchfilter.NewValue(reporting.GroupedByField, ic.groupedBy)
	}
	if ic.from != "" || ic.to != "" {
		dateRange, err := searchfilter.ParseDateRange(def.DateField, ic.from, ic.to)
		if err != nil {
			return nil, err
		}
		filters[def.DateField] = dateRange
	}
	for _, raw := range ic.values {
		field, list, ok := strings.Cut(raw, "=")
		field = strings.TrimSpace(field)
		if !ok || field == "" || strings.TrimSpace(list) == "" {
			return nil, errors.Newf("filter %q must be formatted as field=v1,v2", raw)
		}
		var values []string
		for _, v := range strings.Split(list, ",") {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}
		filters[field] = searchfilter.NewValue(field, values)
	}
	return filters, nil
}
