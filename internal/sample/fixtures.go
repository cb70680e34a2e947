package sample

// Fixed demo content. Each file deliberately carries the defects the
// pipeline repairs: mixed gender encodings, two-digit and slash date
// formats, currency-formatted salaries, an exact duplicate row, and
// scattered missing values.

type sourceFile struct {
	name    string
	header  []string
	records [][]string
}

var abbreviatedFile = sourceFile{
	name: "dataset_1.csv",
	header: []string{
		"emp_id", "fname", "lname", "sex", "birth_date",
		"joining_date", "annual_salary", "dept", "yrs_old", "active_status",
	},
	records: [][]string{
		{"11", "Ivan", "Petrov", "M", "03/14/85", "06/01/12", "$75,000.00", "IT", "40", "active"},
		{"12", "Julia", "Koch", "F", "11/02/90", "04/15/16", "62,500", "HR", "35", "active"},
		{"13", "Ken", "Adams", "1", "07/23/88", "09/01/14", "58000", "Sales", "37", "inactive"},
		{"14", "Lena", "Fischer", "2", "02/11/93", "03/05/18", "$67,250.50", "Finance", "32", "active"},
		{"15", "Marc", "Weber", "M", "08/30/86", "01/20/11", "71000", "IT", "39", "active"},
		{"15", "Marc", "Weber", "M", "08/30/86", "01/20/11", "71000", "IT", "39", "active"},
		{"16", "Nina", "Schulz", "", "05/17/91", "07/12/17", "49,800", "", "34", "active"},
	},
}

var standardFile = sourceFile{
	name: "dataset_2.csv",
	header: []string{
		"employee_id", "first_name", "last_name", "gender", "date_of_birth",
		"hire_date", "salary", "department", "age", "status",
	},
	records: [][]string{
		{"17", "Olga", "Ivanova", "female", "1989-07-19", "2016-02-01", "64000", "HR", "36", "active"},
		{"18", "Peter", "Novak", "MALE", "1984-12-03", "2010-10-11", "78500", "IT", "41", "active"},
		{"19", "Qi", "Zhang", "F", "1992-05-28", "2019-08-19", "N/A", "Finance", "33", "active"},
		{"20", "Rita", "Moreno", "f", "1987-09-09", "2013-04-22", "66000", "Sales", "38", ""},
		{"21", "Sam", "O'Neil", "male", "1990-11-30", "2015-07-06", `="59000"`, "IT", "35", "inactive"},
		{"22", "Tara", "Singh", "", "1994-03-17", "2021-01-04", "51000", "HR", "31", "active"},
	},
}

var mixedFile = sourceFile{
	name: "input_data.xlsx",
	header: []string{
		"emp_id", "first_name", "last_name", "gender", "dob",
		"hire_date", "salary", "department", "age", "status",
	},
	records: [][]string{
		{"23", "Uma", "Patel", "ff", "6/10/88", "3/20/14", "57500", "IT", "37", "active"},
		{"24", "Victor", "Cruz", "MM", "1986-08-22", "2012-09-15", "$69,900", "Sales", "39", "active"},
		{"25", "Wendy", "Liu", "0", "1995-02-14", "2020-06-08", "47500", "HR", "30", "active"},
		{"26", "", "Xu", "F", "1991-10-05", "2017-11-27", "53250", "Finance", "34", ""},
	},
}

var employeeFile = sourceFile{
	name: "sample_employee_data.csv",
	header: []string{
		"emp_id", "first_name", "last_name", "gender", "dob",
		"hire_date", "salary", "department", "age", "status",
	},
	records: [][]string{
		{"1", "John", "Doe", "M", "1990-01-15", "2015-06-01", "50000", "IT", "34", "active"},
		{"2", "Jane", "Smith", "F", "1992-03-22", "2016-08-15", "65000", "HR", "32", "active"},
		{"3", "Bob", "Johnson", "male", "1988-06-10", "2014-03-20", "55000", "IT", "36", "inactive"},
		{"4", "Alice", "Williams", "female", "1995-12-05", "2017-01-10", "72000", "Finance", "29", "active"},
		{"5", "Charlie", "Brown", "MM", "1987-04-18", "2018-07-05", "48000", "Sales", "37", "active"},
		{"6", "Diana", "Jones", "ff", "1993-07-30", "2015-11-18", "68000", "HR", "31", "active"},
		{"7", "Eve", "Garcia", "0", "1991-09-12", "2019-02-14", "52000", "IT", "33", "inactive"},
		{"8", "Frank", "Miller", "M", "1989-02-28", "2016-09-30", "61000", "Finance", "35", "active"},
		{"9", "Grace", "Davis", "F", "1994-11-08", "2017-05-22", "58000", "Sales", "30", "active"},
		{"10", "Henry", "Rodriguez", "", "1986-05-25", "2015-12-01", "70000", "IT", "38", "active"},
	},
}

var files = []sourceFile{abbreviatedFile, standardFile, mixedFile, employeeFile}
