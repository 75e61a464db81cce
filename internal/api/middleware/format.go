package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"

	"github.com/labstack/echo/v4"
)

var callbackName = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$.]*$`)

// Format returns Echo middleware applying the pretty_print and callback
// query arguments to successful JSON responses: pretty_print indents the
// body and callback wraps it as JSONP.
func Format() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			callback := c.QueryParam("callback")
			pretty, _ := strconv.ParseBool(c.QueryParam("pretty_print"))
			if (callback == "" && !pretty) || !isAPIPath(c.Request().URL.Path) {
				return next(c)
			}
			if callback != "" && !callbackName.MatchString(callback) {
				return c.JSON(http.StatusBadRequest, map[string]string{
					"error": "invalid callback name",
				})
			}

			res := c.Response()
			orig := res.Writer
			buf := &bufferedWriter{ResponseWriter: orig, status: http.StatusOK}
			res.Writer = buf
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			res.Writer = orig

			body := buf.body.Bytes()
			if buf.status >= 200 && buf.status < 300 {
				if pretty {
					var out bytes.Buffer
					if json.Indent(&out, body, "", "  ") == nil {
						body = out.Bytes()
					}
				}
				if callback != "" {
					body = append(append([]byte(callback+"("), bytes.TrimSpace(body)...), ')')
					orig.Header().Set(echo.HeaderContentType, "application/javascript")
				}
			}
			orig.Header().Del(echo.HeaderContentLength)
			orig.WriteHeader(buf.status)
			_, werr := orig.Write(body)
			return werr
		}
	}
}

// bufferedWriter holds a response until Format has rewritten it.
type bufferedWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (w *bufferedWriter) WriteHeader(code int) {
	w.status = code
}

func (w *bufferedWriter) Write(b []byte) (int, error) {
	return w.body.Write(b)
}
