package listing

import "html/template"

var listingTemplate = template.Must(template.New("listing").Parse(`<!DOCTYPE html>
<html>
    <head>
        <title>Directory listing for {{.Path}}</title>
        <style type="text/css" media="all">
        body {
            font-family: sans-serif;
            margin: 0 auto;
            max-width: 40em;
            line-height: 1.5;
        }
        h1 {
            margin: 1em 0 0 0;
            padding: 0.125ex 1ex;
            font-size: 100%;
            border-bottom: 1px solid silver;
        }
        ul {
            margin: 0;
            padding: 0;
            list-style: none;
        }
        li {
            border-bottom: 1px solid silver;
        }
        li a {
            display: block;
            padding: 0.125ex 1ex;
        }
        li a:hover {
            background: #EEE;
        }
        li span {
            float: right;
            padding: 0.125ex 1ex;
            color: gray;
        }
        hr {
            display: none;
        }
        address {
            text-align: right;
            padding: 0.125ex 1ex;
        }
        </style>
    </head>
    <body>
        <h1>Directory listing for {{.Path}}</h1>
        <ul><li><a href="../">../</a></li>{{range .Entries}}<li>{{if not .IsDir}}<span>{{.Size}}</span>{{end}}<a href="{{.Href}}">{{.Name}}</a></li>{{end}}</ul>
        <hr>
        <address>ImageProxy/{{.Version}}</address>
    </body>
</html>
`))

var forbiddenTemplate = template.Must(template.New("forbidden").Parse(`<!DOCTYPE html>
<html>
    <head>
        <title>Access forbidden to {{.Path}}</title>
    </head>
    <body>
        <h1>Access forbidden to {{.Path}}</h1>
        <address>ImageProxy/{{.Version}}</address>
    </body>
</html>
`))
