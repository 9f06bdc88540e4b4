package service

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/fulldump/apitest"
	"github.com/fulldump/biff"
)

type JSON = map[string]interface{}

func decodeLines(body string) []interface{} {
	result := []interface{}{}
	dec := json.NewDecoder(strings.NewReader(body))
	for {
		var item interface{}
		err := dec.Decode(&item)
		if err == io.EOF {
			return result
		}
		biff.AssertNil(err)
		result = append(result, item)
	}
}

func streamBody(items ...interface{}) string {
	body := ""
	for _, item := range items {
		b, _ := json.Marshal(item)
		body += string(b) + "\n"
	}
	return body
}

func Acceptance(a *biff.A, apiRequest func(method, path string) *apitest.Request) {

	a.Alternative("Create static table", func(a *biff.A) {
		resp := apiRequest("POST", "/tables").
			WithBodyJson(JSON{
				"name": "users",
				"kind": "static",
			}).Do()
		Save(resp, "Create table", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusCreated)
		body := resp.BodyJsonMap()
		biff.AssertEqual(body["name"], "users")
		biff.AssertEqual(body["kind"], "static")
		biff.AssertNotEqual(body["id"], "")
		biff.AssertEqualJson(body["columns"], []string{"column0", "column1", "column2", "column3"})
		biff.AssertEqualJson(body["stats"], JSON{
			"total": 0, "active": 0, "tombstones": 0, "indexes": 0, "buckets": 0,
		})

		a.Alternative("Retrieve table", func(a *biff.A) {
			resp := apiRequest("GET", "/tables/users").Do()
			Save(resp, "Retrieve table", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqual(resp.BodyJsonMap()["name"], "users")
		})

		a.Alternative("List tables", func(a *biff.A) {
			resp := apiRequest("GET", "/tables").Do()
			Save(resp, "List tables", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			list := resp.BodyJson().([]interface{})
			biff.AssertEqual(len(list), 1)
		})

		a.Alternative("Create duplicated table", func(a *biff.A) {
			resp := apiRequest("POST", "/tables").
				WithBodyJson(JSON{"name": "users", "kind": "dynamic"}).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusConflict)
			biff.AssertEqual(resp.BodyJsonMap()["error"].(map[string]interface{})["description"], "Table already exists")
		})

		a.Alternative("Drop table", func(a *biff.A) {
			resp := apiRequest("POST", "/tables/users:dropTable").Do()
			Save(resp, "Drop table", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusNoContent)

			a.Alternative("Get dropped table", func(a *biff.A) {
				resp := apiRequest("GET", "/tables/users").Do()
				Save(resp, "Get table - not found", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
			})
		})

		a.Alternative("Dynamic operations are rejected", func(a *biff.A) {
			resp := apiRequest("POST", "/tables/users:addColumn").
				WithBodyJson(JSON{"name": "email", "default": JSON{"string": ""}}).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
		})

		a.Alternative("Insert many", func(a *biff.A) {
			records := []JSON{
				{"column0": 1, "column1": "alice", "column2": 30, "column3": "madrid"},
				{"column0": 2, "column1": "bob", "column2": 25, "column3": "lisbon"},
				{"column0": 3, "column1": "malice", "column2": 30, "column3": "rome"},
			}
			resp := apiRequest("POST", "/tables/users:insert").
				WithBodyString(streamBody(records[0], records[1], records[2])).Do()
			Save(resp, "Insert many", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusCreated)
			biff.AssertEqualJson(decodeLines(resp.BodyString()), records)

			a.Alternative("Insert duplicated key", func(a *biff.A) {
				resp := apiRequest("POST", "/tables/users:insert").
					WithBodyJson(JSON{"column0": 2, "column1": "eve"}).Do()
				Save(resp, "Insert - duplicated key", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusConflict)
			})

			a.Alternative("Insert unknown field", func(a *biff.A) {
				resp := apiRequest("POST", "/tables/users:insert").
					WithBodyJson(JSON{"column0": 9, "email": "x"}).Do()

				biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
			})

			a.Alternative("Find by primary key", func(a *biff.A) {
				resp := apiRequest("POST", "/tables/users:find").
					WithBodyJson(JSON{"column": "column0", "match": "2"}).Do()
				Save(resp, "Find - by primary key", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), []JSON{records[1]})
			})

			a.Alternative("Find by substring", func(a *biff.A) {
				resp := apiRequest("POST", "/tables/users:find").
					WithBodyJson(JSON{"column": "column1", "match": "lic"}).Do()
				Save(resp, "Find - substring scan", `
					Non indexed string columns match by substring.
				`)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), []JSON{records[0], records[2]})
			})

			a.Alternative("Find malformed number", func(a *biff.A) {
				resp := apiRequest("POST", "/tables/users:find").
					WithBodyJson(JSON{"column": "column2", "match": "30abc"}).Do()

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), []JSON{})
			})

			a.Alternative("Find unknown column", func(a *biff.A) {
				resp := apiRequest("POST", "/tables/users:find").
					WithBodyJson(JSON{"column": "column7", "match": "1"}).Do()

				biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
			})

			a.Alternative("Create index", func(a *biff.A) {
				resp := apiRequest("POST", "/tables/users:createIndex").
					WithBodyJson(JSON{"column": "column2"}).Do()
				Save(resp, "Create index", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusCreated)

				a.Alternative("List indexes", func(a *biff.A) {
					resp := apiRequest("POST", "/tables/users:listIndexes").Do()
					Save(resp, "List indexes", ``)

					biff.AssertEqualJson(resp.BodyJson(), []JSON{{"column": "column2"}})
				})

				a.Alternative("Find by index", func(a *biff.A) {
					resp := apiRequest("POST", "/tables/users:find").
						WithBodyJson(JSON{"column": "column2", "match": "30"}).Do()
					Save(resp, "Find - by index", ``)

					biff.AssertEqualJson(resp.BodyJson(), []JSON{records[0], records[2]})
				})

				a.Alternative("Soft remove and compact", func(a *biff.A) {
					resp := apiRequest("POST", "/tables/users:remove").
						WithBodyJson(JSON{"id": 1}).Do()
					Save(resp, "Remove - soft", ``)

					biff.AssertEqual(resp.StatusCode, http.StatusOK)
					biff.AssertEqualJson(resp.BodyJson(), JSON{"removed": true})

					resp = apiRequest("POST", "/tables/users:find").
						WithBodyJson(JSON{"column": "column2", "match": "30"}).Do()
					biff.AssertEqualJson(resp.BodyJson(), []JSON{records[2]})

					resp = apiRequest("GET", "/tables/users").Do()
					biff.AssertEqualJson(resp.BodyJsonMap()["stats"], JSON{
						"total": 3, "active": 2, "tombstones": 1, "indexes": 1, "buckets": 2,
					})

					resp = apiRequest("POST", "/tables/users:compact").Do()
					Save(resp, "Compact", ``)

					biff.AssertEqual(resp.StatusCode, http.StatusOK)
					biff.AssertEqualJson(resp.BodyJsonMap()["stats"], JSON{
						"total": 2, "active": 2, "tombstones": 0, "indexes": 1, "buckets": 2,
					})

					resp = apiRequest("POST", "/tables/users:find").
						WithBodyJson(JSON{"column": "column0", "match": "3"}).Do()
					biff.AssertEqualJson(resp.BodyJson(), []JSON{records[2]})
				})

				a.Alternative("Hard remove", func(a *biff.A) {
					resp := apiRequest("POST", "/tables/users:remove").
						WithBodyJson(JSON{"id": 1, "hard": true}).Do()
					Save(resp, "Remove - hard", ``)

					biff.AssertEqualJson(resp.BodyJson(), JSON{"removed": true})
					resp = apiRequest("GET", "/tables/users").Do()
					biff.AssertEqualJson(resp.BodyJsonMap()["stats"], JSON{
						"total": 2, "active": 2, "tombstones": 0, "indexes": 1, "buckets": 2,
					})
				})

				a.Alternative("Remove missing", func(a *biff.A) {
					resp := apiRequest("POST", "/tables/users:remove").
						WithBodyJson(JSON{"id": 99}).Do()

					biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
					biff.AssertEqualJson(resp.BodyJson(), JSON{"removed": false})
				})

				a.Alternative("Drop index", func(a *biff.A) {
					resp := apiRequest("POST", "/tables/users:dropIndex").
						WithBodyJson(JSON{"column": "column2"}).Do()
					Save(resp, "Drop index", ``)

					biff.AssertEqual(resp.StatusCode, http.StatusNoContent)
					resp = apiRequest("POST", "/tables/users:listIndexes").Do()
					biff.AssertEqualJson(resp.BodyJson(), []JSON{})
				})
			})

			a.Alternative("Create index on unknown column", func(a *biff.A) {
				resp := apiRequest("POST", "/tables/users:createIndex").
					WithBodyJson(JSON{"column": "column9"}).Do()

				biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
			})
		})
	})

	a.Alternative("Create dynamic table", func(a *biff.A) {
		resp := apiRequest("POST", "/tables").
			WithBodyJson(JSON{"name": "people", "kind": "dynamic"}).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusCreated)
		biff.AssertEqualJson(resp.BodyJsonMap()["columns"], []string{"id"})

		resp = apiRequest("POST", "/tables/people:addColumn").
			WithBodyJson(JSON{"name": "name", "default": JSON{"string": ""}}).Do()
		Save(resp, "Add column", ``)
		biff.AssertEqual(resp.StatusCode, http.StatusCreated)

		resp = apiRequest("POST", "/tables/people:addColumn").
			WithBodyJson(JSON{"name": "age", "default": JSON{"int": 0}}).Do()
		biff.AssertEqual(resp.StatusCode, http.StatusCreated)
		biff.AssertEqualJson(resp.BodyJsonMap()["columns"], []string{"id", "age", "name"})

		alice := JSON{"id": 1, "fields": JSON{"name": JSON{"string": "alice"}, "age": JSON{"int": 30}}}
		bob := JSON{"id": 2, "fields": JSON{"name": JSON{"string": "bob"}, "age": JSON{"int": 25}}}
		resp = apiRequest("POST", "/tables/people:insert").
			WithBodyString(streamBody(alice, bob)).Do()
		Save(resp, "Insert - dynamic", ``)
		biff.AssertEqual(resp.StatusCode, http.StatusCreated)

		a.Alternative("Add taken column", func(a *biff.A) {
			resp := apiRequest("POST", "/tables/people:addColumn").
				WithBodyJson(JSON{"name": "age", "default": JSON{"int": 0}}).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusConflict)
		})

		a.Alternative("Find typed value", func(a *biff.A) {
			resp := apiRequest("POST", "/tables/people:find").
				WithBodyJson(JSON{"column": "age", "value": JSON{"int": 30}}).Do()
			Save(resp, "Find - dynamic", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), []JSON{alice})

			resp = apiRequest("POST", "/tables/people:find").
				WithBodyJson(JSON{"column": "age", "value": JSON{"uint": 30}}).Do()
			biff.AssertEqualJson(resp.BodyJson(), []JSON{})
		})

		a.Alternative("Find without value", func(a *biff.A) {
			resp := apiRequest("POST", "/tables/people:find").
				WithBodyJson(JSON{"column": "age"}).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
		})

		a.Alternative("Insert unknown field", func(a *biff.A) {
			resp := apiRequest("POST", "/tables/people:insert").
				WithBodyJson(JSON{"id": 3, "fields": JSON{"email": JSON{"string": "x"}}}).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
		})

		a.Alternative("Derived column", func(a *biff.A) {
			resp := apiRequest("POST", "/tables/people:addDerivedColumn").
				WithBodyJson(JSON{"name": "label", "kind": "concat", "columns": []string{"name", "age"}}).Do()
			Save(resp, "Add derived column", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusCreated)
			biff.AssertEqualJson(resp.BodyJsonMap()["derived"], []string{"label"})

			resp = apiRequest("POST", "/tables/people:createIndex").
				WithBodyJson(JSON{"column": "label"}).Do()
			biff.AssertEqual(resp.StatusCode, http.StatusCreated)

			resp = apiRequest("POST", "/tables/people:find").
				WithBodyJson(JSON{"column": "label", "value": JSON{"string": "bob25"}}).Do()
			biff.AssertEqualJson(resp.BodyJson(), []JSON{bob})

			a.Alternative("Unknown derived kind", func(a *biff.A) {
				resp := apiRequest("POST", "/tables/people:addDerivedColumn").
					WithBodyJson(JSON{"name": "avg", "kind": "avg", "columns": []string{"age"}}).Do()

				biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
			})

			a.Alternative("Remove derived column", func(a *biff.A) {
				resp := apiRequest("POST", "/tables/people:removeColumn").
					WithBodyJson(JSON{"name": "label"}).Do()
				Save(resp, "Remove column", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				body := resp.BodyJsonMap()
				biff.AssertEqualJson(body["derived"], []string{})
				biff.AssertEqualJson(body["indexes"], []string{})
			})
		})
	})

	a.Alternative("Create table with unknown kind", func(a *biff.A) {
		resp := apiRequest("POST", "/tables").
			WithBodyJson(JSON{"name": "weird", "kind": "columnar"}).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
	})

	a.Alternative("Table not found", func(a *biff.A) {
		resp := apiRequest("POST", "/tables/nope:find").
			WithBodyJson(JSON{"column": "column0", "match": "1"}).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
	})
}
