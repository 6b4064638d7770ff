package employee

// Employee is the upstream record as received. It is never stored locally.
type Employee struct {
	ID     string `json:"id"`
	Name   string `json:"employee_name"`
	Salary int    `json:"employee_salary"`
	Age    int    `json:"employee_age"`
	Title  string `json:"employee_title"`
	Email  string `json:"employee_email"`
}
