package taskapi

import "io"

// Endpoint paths relative to the service base URL.
const (
	EndpointRegister            = "/tasks/rest/doregister"
	EndpointLogin               = "/tasks/rest/dologin"
	EndpointCreateTask          = "/tasks/rest/createtask"
	EndpointCreateCompany       = "/tasks/rest/createcompany"
	EndpointCreateUser          = "/tasks/rest/createuser"
	EndpointCreateUserWithTasks = "/tasks/rest/createuserwithtasks"
	EndpointAddAvatar           = "/tasks/rest/addavatar"
	EndpointDeleteAvatar        = "/tasks/rest/deleteavatar"
)

// Document is a decoded JSON response body.
type Document map[string]any

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Task is the payload for CreateTask.
type Task struct {
	Title       string `json:"task_title" yaml:"task_title"`
	Description string `json:"task_description" yaml:"task_description"`
	OwnerEmail  string `json:"email_owner" yaml:"email_owner"`
	AssignEmail string `json:"email_assign" yaml:"email_assign"`
}

// Company is the payload for CreateCompany.
type Company struct {
	Name       string   `json:"company_name" yaml:"company_name"`
	Type       string   `json:"company_type" yaml:"company_type"`
	Users      []string `json:"company_users" yaml:"company_users"`
	OwnerEmail string   `json:"email_owner" yaml:"email_owner"`
}

// Profile holds the optional user attributes. Nil fields are sent as null.
type Profile struct {
	Hobby      *string `json:"hobby" yaml:"hobby"`
	Address    *string `json:"adres" yaml:"adres"`
	Name1      *string `json:"name1" yaml:"name1"`
	Surname1   *string `json:"surname1" yaml:"surname1"`
	Fathername *string `json:"fathername1" yaml:"fathername1"`
	Cat        *string `json:"cat" yaml:"cat"`
	Dog        *string `json:"dog" yaml:"dog"`
	Parrot     *string `json:"parrot" yaml:"parrot"`
	Cavy       *string `json:"cavy" yaml:"cavy"`
	Hamster    *string `json:"hamster" yaml:"hamster"`
	Squirrel   *string `json:"squirrel" yaml:"squirrel"`
	Phone      *string `json:"phone" yaml:"phone"`
	INN        *string `json:"inn" yaml:"inn"`
	Gender     *string `json:"gender" yaml:"gender"`
	Birthday   *string `json:"birthday" yaml:"birthday"`
	DateStart  *string `json:"date_start" yaml:"date_start"`
}

// User is the payload for CreateUser and CreateUserWithTasks.
type User struct {
	Email     string `json:"email" yaml:"email"`
	Name      string `json:"name" yaml:"name"`
	Tasks     []int  `json:"tasks" yaml:"tasks"`
	Companies []int  `json:"companies" yaml:"companies"`
	Profile   `yaml:",inline"`
}

// withLists returns u with nil associations replaced by empty lists, so the
// service always receives arrays.
func (u User) withLists() User {
	if u.Tasks == nil {
		u.Tasks = []int{}
	}
	if u.Companies == nil {
		u.Companies = []int{}
	}
	return u
}

// Avatar is the file uploaded by AddAvatar.
type Avatar struct {
	FileName string
	Reader   io.Reader
}

// String returns a pointer to s, for filling Profile fields.
func String(s string) *string { return &s }
