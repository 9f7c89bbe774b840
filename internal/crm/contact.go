package crm

type Contacts struct {
	Items []*Contact
}

type Contact struct {
	ID       int    `json:"id,omitempty"`
	FullName string `json:"full_name,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

func (c *Contacts) Len() int {
	return len(c.Items)
}

func (c *Contacts) FindByID(id int) *Contact {
	for _, contact := range c.Items {
		if contact.ID == id {
			return contact
		}
	}

	return nil
}
