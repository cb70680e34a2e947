package schema

import "github.com/JonMunkholm/tabfuse/internal/core"

// CanonicalColumns is the unified employee schema every bundled layout
// maps into, in output order.
var CanonicalColumns = []string{
	"employee_id",
	"first_name",
	"last_name",
	"gender",
	"date_of_birth",
	"hire_date",
	"salary",
	"department",
	"age",
	"status",
}

// AbbreviatedLayout maps the HR export that ships with shortened headers.
var AbbreviatedLayout = Layout{
	Key:      "abbreviated",
	Label:    "HR export with abbreviated headers",
	Filename: "dataset_1.csv",
	Mapping: core.Mapping{
		{From: "emp_id", To: "employee_id"},
		{From: "fname", To: "first_name"},
		{From: "lname", To: "last_name"},
		{From: "sex", To: "gender"},
		{From: "birth_date", To: "date_of_birth"},
		{From: "joining_date", To: "hire_date"},
		{From: "annual_salary", To: "salary"},
		{From: "dept", To: "department"},
		{From: "yrs_old", To: "age"},
		{From: "active_status", To: "status"},
	},
}

// StandardLayout maps the feed that already uses canonical headers.
var StandardLayout = Layout{
	Key:      "standard",
	Label:    "Feed with canonical headers",
	Filename: "dataset_2.csv",
	Mapping:  core.Identity(CanonicalColumns),
}

// MixedLayout maps the workbook export that mixes abbreviated and
// canonical headers.
var MixedLayout = Layout{
	Key:      "mixed",
	Label:    "Workbook export with mixed headers",
	Filename: "input_data.xlsx",
	Mapping: core.Mapping{
		{From: "emp_id", To: "employee_id"},
		{From: "first_name", To: "first_name"},
		{From: "last_name", To: "last_name"},
		{From: "gender", To: "gender"},
		{From: "dob", To: "date_of_birth"},
		{From: "hire_date", To: "hire_date"},
		{From: "salary", To: "salary"},
		{From: "department", To: "department"},
		{From: "age", To: "age"},
		{From: "status", To: "status"},
	},
}

// SampleLayout maps the generated sample file; same header shape as the
// mixed workbook but delivered as CSV.
var SampleLayout = Layout{
	Key:      "sample",
	Label:    "Generated sample employee data",
	Filename: "sample_employee_data.csv",
	Mapping:  MixedLayout.Mapping,
}

func init() {
	Register(AbbreviatedLayout)
	Register(StandardLayout)
	Register(MixedLayout)
	Register(SampleLayout)
}
