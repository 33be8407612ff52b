// Package employees embeds the employee service in a Go program: the same
// validation, paging and query translation as the HTTP API, without the
// HTTP hop.
//
//	client, err := employees.New(ctx, employees.WithElasticsearch("http://localhost:9200"))
//	if err != nil { ... }
//	defer client.Close()
//
//	emp := client.Employees()
//	_, _ = emp.Put(ctx, "1", employees.Employee{Name: "Ana Brown", Skills: []string{"Java"}})
//	list, _ := emp.Search(ctx, employees.SearchQuery{Field: "skills", Value: "Java", Type: employees.QueryMatch})
//	avg, _ := emp.Aggregate(ctx, employees.AggregateQuery{
//	    Field: "skills", Value: "Java", Metric: employees.MetricAvg, MetricField: "salary",
//	})
package employees
