package output

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>NYC Trip Dashboard</title>
<style>
:root {
  --bg: #fff; --fg: #1a1a2e; --card-bg: #f8f9fa; --border: #dee2e6;
  --table-alt: #f1f3f5; --hover: #e9ecef; --muted: #6c757d;
  --accent: #0d6efd;
}
@media (prefers-color-scheme: dark) {
  :root {
    --bg: #1a1a2e; --fg: #e9ecef; --card-bg: #16213e; --border: #495057;
    --table-alt: #0f3460; --hover: #1a1a4e; --muted: #adb5bd;
    --accent: #5b9aff;
  }
}
* { box-sizing: border-box; margin: 0; padding: 0; }
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; background: var(--bg); color: var(--fg); line-height: 1.5; padding: 1rem; max-width: 1400px; margin: 0 auto; }
header { margin-bottom: 1.5rem; }
header h1 { font-size: 1.5rem; margin-bottom: .25rem; }
header p { color: var(--muted); font-size: .875rem; }
.cards { display: grid; grid-template-columns: repeat(auto-fit, minmax(120px, 1fr)); gap: .75rem; margin-bottom: 1.5rem; }
.card { background: var(--card-bg); border: 1px solid var(--border); border-radius: 8px; padding: .75rem; text-align: center; }
.card .value { font-size: 1.5rem; font-weight: 700; }
.card .label { font-size: .75rem; color: var(--muted); text-transform: uppercase; }
.charts { display: grid; grid-template-columns: repeat(2, 1fr); gap: 1rem; margin-bottom: 1.5rem; }
@media (max-width: 768px) { .charts { grid-template-columns: 1fr; } }
.chart-box { background: var(--card-bg); border: 1px solid var(--border); border-radius: 8px; padding: 1rem; }
.chart-box h3 { font-size: .875rem; margin-bottom: .5rem; }
table { width: 100%; border-collapse: collapse; font-size: .8125rem; }
thead { position: sticky; top: 0; background: var(--card-bg); }
th, td { padding: .5rem .625rem; text-align: left; border-bottom: 1px solid var(--border); }
th { cursor: pointer; user-select: none; white-space: nowrap; }
th:hover { color: var(--accent); }
tr:nth-child(even) { background: var(--table-alt); }
tr:hover { background: var(--hover); }
.sort-arrow { font-size: .625rem; margin-left: .25rem; }
.num { text-align: right; font-variant-numeric: tabular-nums; }
.unavailable { color: #dc3545; padding: .5rem 0; }
.chart-box img { width: 100%; height: auto; }
.insight .value { font-size: 1.125rem; }
.insight .detail { font-size: .8125rem; color: var(--muted); }
section { margin-bottom: 1.5rem; }
section h2 { font-size: 1.125rem; margin-bottom: .5rem; }
</style>
</head>
<body>
<header>
  <h1>NYC Trip Dashboard</h1>
  <p>Generated {{.GeneratedAt}} &middot; filters: {{.Filters}} &middot; sort: {{.Sort}}</p>
</header>
{{if .Full}}
<section class="cards" id="kpis">
{{range .KPIs}}  <div class="card"><div class="value">{{.Value}}</div><div class="label">{{.Label}}</div></div>
{{end}}</section>
{{range .Notices}}<p class="unavailable">{{.}}</p>
{{end}}{{if .Charts}}
<section class="charts" id="charts">
{{range .Charts}}  <div class="chart-box"><h3>{{.Title}}</h3><img src="{{.Src}}" alt="{{.Title}}"></div>
{{end}}</section>
{{end}}{{with .Insights}}
<section id="insights">
<h2>Insights</h2>
{{if .Message}}<p class="unavailable">{{.Message}}</p>{{else}}<div class="cards">
{{range .Records}}  <div class="card insight"><div class="label">{{.Title}}</div><div class="value">{{.Stat}}</div><div class="detail">{{.Detail}}</div></div>
{{end}}</div>{{end}}
</section>
{{end}}{{end}}
{{range .Sections}}
<section id="{{.ID}}">
<h2>{{.Title}}</h2>
{{if .Message}}<p class="unavailable">{{.Message}}</p>{{else}}<table class="sortable">
<thead><tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr>{{range .}}<td{{if .Num}} class="num"{{end}}>{{.Text}}</td>{{end}}</tr>
{{end}}</tbody>
</table>{{end}}
</section>
{{end}}
<script>
(function(){
  var tables = document.querySelectorAll("table.sortable");
  for (var t = 0; t < tables.length; t++) {
    (function(table){
      var headers = table.querySelectorAll("th");
      var sortCol = -1, sortAsc = true;
      for (var i = 0; i < headers.length; i++) {
        headers[i].addEventListener("click", (function(th, ci){
          return function(){
            if (sortCol === ci) sortAsc = !sortAsc; else { sortCol = ci; sortAsc = false; }
            var tbody = table.querySelector("tbody");
            var rows = Array.prototype.slice.call(tbody.querySelectorAll("tr"));
            rows.sort(function(a,b){
              var av = a.children[ci].textContent, bv = b.children[ci].textContent;
              var an = parseFloat(av.replace(/[$,]/g,"")), bn = parseFloat(bv.replace(/[$,]/g,""));
              if (!isNaN(an) && !isNaN(bn)) return sortAsc ? an-bn : bn-an;
              return sortAsc ? av.localeCompare(bv) : bv.localeCompare(av);
            });
            for (var k = 0; k < rows.length; k++) tbody.appendChild(rows[k]);
            table.querySelectorAll(".sort-arrow").forEach(function(e){e.remove();});
            var arrow = document.createElement("span");
            arrow.className = "sort-arrow";
            arrow.textContent = sortAsc ? " \u25B2" : " \u25BC";
            th.appendChild(arrow);
          };
        })(headers[i], i));
      }
    })(tables[t]);
  }
})();
</script>
</body>
</html>`
