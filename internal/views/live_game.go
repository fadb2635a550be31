package views

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/jackpalacios/jackstatz/internal/entity"
)

var statColumns = []struct {
	key, label string
}{
	{entity.StatPoints2, "2PT"},
	{entity.StatPoints3, "3PT"},
	{entity.StatRebounds, "REB"},
	{entity.StatAssists, "AST"},
	{entity.StatSteals, "STL"},
}

// LiveGame is the scoreboard. It keeps itself current through the /events stream.
func LiveGame(game entity.LiveGame, readOnly bool) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		totals := game.Totals()
		h.rawf(`<section id="live-game" data-game-id="%d">`, game.ID)
		h.raw(`<h1>Live Game</h1>`)
		readOnlyBanner(h, readOnly)
		h.raw(`<p id="stream-status">Connecting…</p>`)
		h.raw(`<h2 id="scoreline">`)
		h.raw(`<span id="team1-name">`)
		h.text(game.Team1.Name)
		h.rawf(`</span> <span id="team1-total">%d</span> : <span id="team2-total">%d</span> <span id="team2-name">`, totals.Team1, totals.Team2)
		h.text(game.Team2.Name)
		h.raw(`</span></h2>`)
		teamTable(h, entity.Team1, game.Team1)
		teamTable(h, entity.Team2, game.Team2)
		h.raw(`</section>`)
		h.raw(liveGameScript)
		return h.err
	})
	return page("Live Game", body)
}

func teamTable(h *html, key string, team entity.TeamSnapshot) {
	h.rawf(`<table class="team" data-team="%s"><thead><tr><th>#</th><th>Name</th><th>Pos</th>`, key)
	for _, c := range statColumns {
		h.raw(`<th>`)
		h.text(c.label)
		h.raw(`</th>`)
	}
	h.raw(`<th>PTS</th></tr></thead><tbody>`)
	for i, p := range team.Players {
		id := key + "-" + strconv.Itoa(i)
		h.rawf(`<tr><td>%d</td><td><span class="player-name" id="%s-name" data-team="%s" data-index="%d">`, p.JerseyNumber, id, key, i)
		h.text(p.Name)
		h.raw(`</span></td><td>`)
		h.text(p.Position)
		h.raw(`</td>`)
		for _, c := range statColumns {
			v, _ := p.Stat(c.key)
			h.rawf(`<td><button class="stat" id="%s-%s" data-team="%s" data-index="%d" data-stat="%s">%d</button></td>`,
				id, c.key, key, i, c.key, v)
		}
		h.rawf(`<td id="%s-total">%d</td></tr>`, id, p.TotalPoints())
	}
	h.raw(`</tbody></table>`)
}

// Clicking a stat adds one, right click removes one, clicking a name renames.
const liveGameScript = `<script>
(function () {
  var root = document.getElementById("live-game");
  var gameId = Number(root.dataset.gameId) || null;
  var status = document.getElementById("stream-status");
  function text(id, value) { var el = document.getElementById(id); if (el) { el.textContent = value; } }
  function post(path, body) {
    body.game_id = gameId;
    return fetch(path, {method: "POST", headers: {"Content-Type": "application/json"}, body: JSON.stringify(body)})
      .then(function (r) { return r.json(); })
      .then(function (res) { if (!res.success) { status.textContent = res.error; } });
  }
  root.addEventListener("click", function (e) {
    var t = e.target;
    if (t.classList.contains("stat")) {
      post("/update_player_stat", {team: t.dataset.team, player_index: Number(t.dataset.index), stat_type: t.dataset.stat, value: Number(t.textContent) + 1});
    } else if (t.classList.contains("player-name")) {
      var name = prompt("Player name", t.textContent);
      if (name) { post("/update_player_name", {team: t.dataset.team, player_index: Number(t.dataset.index), player_name: name}); }
    } else if (t.id === "team1-name" || t.id === "team2-name") {
      var team = prompt("Team name", t.textContent);
      if (team) { post("/update_team_name", {team: t.id.slice(0, 5), team_name: team}); }
    }
  });
  root.addEventListener("contextmenu", function (e) {
    var t = e.target;
    if (!t.classList.contains("stat")) { return; }
    e.preventDefault();
    var v = Number(t.textContent);
    if (v > 0) { post("/update_player_stat", {team: t.dataset.team, player_index: Number(t.dataset.index), stat_type: t.dataset.stat, value: v - 1}); }
  });
  var source = new EventSource("/events");
  source.onmessage = function (e) {
    var msg = JSON.parse(e.data), d = msg.data;
    switch (msg.type) {
    case "connected": status.textContent = "Live"; break;
    case "stat_update":
      var id = d.team + "-" + d.player_index;
      text(id + "-" + d.stat_type, d.value);
      text(id + "-total", d.total_points);
      text("team1-total", d.team_totals.team1);
      text("team2-total", d.team_totals.team2);
      break;
    case "team_name_update": text(d.team + "-name", d.team_name); break;
    case "player_name_update": text(d.team + "-" + d.player_index + "-name", d.player_name); break;
    }
  };
  source.onerror = function () { status.textContent = "Reconnecting…"; };
})();
</script>`
